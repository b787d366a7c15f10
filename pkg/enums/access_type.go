package enums

// AccessType describes what a subscription grants. The gallery currently
// sells a single lifetime product.
type AccessType string

const (
	AccessTypeLifetimeUnlimited AccessType = "LIFETIME_UNLIMITED"
)

// String returns the literal string for the access type.
func (a AccessType) String() string {
	return string(a)
}
