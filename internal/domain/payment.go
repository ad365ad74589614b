/**
 * @description
 * Processor-side payment shapes: the charge created for a pay-upfront pledge
 * and the hosted invoice issued for a pay-on-completion pledge.
 */

package domain

// Charge is a payment intent created for a pay-upfront pledge. The client
// secret is handed to the frontend to complete the payment.
type Charge struct {
	PaymentRef   string `json:"payment_ref"`
	ClientSecret string `json:"client_secret"`
}

// Invoice is a hosted payment request issued for a pay-on-completion pledge.
type Invoice struct {
	ID        string `json:"id"`
	HostedURL string `json:"hosted_url"`
}
