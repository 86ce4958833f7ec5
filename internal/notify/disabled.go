package notify

import "context"

// Disabled is the terminal provider: it accepts every message and delivers
// nothing. It keeps the reset flow functional when no mail transport is
// configured.
type Disabled struct{}

func (Disabled) Send(ctx context.Context, recipient, code string) (Delivery, error) {
	return Delivery{}, nil
}
