package enums

// FulfillmentProgress is the derived label comparing fulfilled quantities
// against ordered quantities across an order's line items.
type FulfillmentProgress string

const (
	FulfillmentProgressUnfulfilled FulfillmentProgress = "unfulfilled"
	FulfillmentProgressPartial     FulfillmentProgress = "partially_fulfilled"
	FulfillmentProgressFulfilled   FulfillmentProgress = "fulfilled"
)

// String implements fmt.Stringer.
func (f FulfillmentProgress) String() string {
	return string(f)
}
