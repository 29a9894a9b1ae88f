package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/bwf-poster/internal/storage"
)

// DryRunNotifier prints what would be sent without contacting any chat API
type DryRunNotifier struct {
	out   io.Writer
	store *storage.Storage
	name  string
}

// NewDryRunNotifier creates a dry-run notifier writing to out (stdout when nil). When store is
// non-nil, photos are written to it under name.
func NewDryRunNotifier(out io.Writer, store *storage.Storage, name string) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out, store: store, name: name}
}

// SendText prints the message that would be posted
func (n *DryRunNotifier) SendText(ctx context.Context, text string) (*Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fmt.Fprintln(n.out, "--- Message ---")
	fmt.Fprintln(n.out, text)
	fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", len([]rune(text)))
	return &Delivery{Success: true, RawResponse: "dry run"}, nil
}

// SendPhoto prints the caption and size of the photo that would be posted
func (n *DryRunNotifier) SendPhoto(ctx context.Context, png []byte, caption string) (*Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintln(n.out, "--- Photo ---")
	fmt.Fprintf(n.out, "(%d bytes)\n", len(png))
	if n.store != nil {
		path, err := n.store.WritePoster(n.name, png)
		if err != nil {
			return nil, fmt.Errorf("saving dry-run photo: %w", err)
		}
		fmt.Fprintf(n.out, "Saved to %s\n", path)
	}
	fmt.Fprintln(n.out, caption)
	fmt.Fprintln(n.out)
	return &Delivery{Success: true, RawResponse: "dry run"}, nil
}
