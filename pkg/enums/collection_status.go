package enums

// CollectionStatus is the derived payment state of an order, comparing the
// sum of applied collection records against the order total.
type CollectionStatus string

const (
	CollectionStatusUnpaid             CollectionStatus = "unpaid"
	CollectionStatusPartiallyCollected CollectionStatus = "partially_collected"
	CollectionStatusFullyCollected     CollectionStatus = "fully_collected"
)

// String implements fmt.Stringer.
func (c CollectionStatus) String() string {
	return string(c)
}
