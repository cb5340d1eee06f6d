// Package entity contains the core business objects of the project.
package entity

// Tier represents the subscription level of an account. Feature gating based
// on the tier happens in the surrounding application, not here.
type Tier string

const (
	// TierFree is the default tier for self-registered accounts.
	TierFree Tier = "free"
	// TierPro is the paid individual tier.
	TierPro Tier = "pro"
	// TierEnterprise is the organization tier.
	TierEnterprise Tier = "enterprise"
)

// String returns the string representation of the Tier.
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the Tier is a valid value.
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	default:
		return false
	}
}
