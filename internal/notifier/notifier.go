package notifier

import "context"

// Delivery is the result of one send attempt
type Delivery struct {
	Success     bool   `json:"success"`
	StatusCode  int    `json:"status_code,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// Notifier defines the interface for delivering posters and text to a chat
type Notifier interface {
	// SendText posts a plain text message
	SendText(ctx context.Context, text string) (*Delivery, error)

	// SendPhoto posts a PNG image with a caption
	SendPhoto(ctx context.Context, png []byte, caption string) (*Delivery, error)
}
