package session

import (
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// Enrollment holds what an admin needs to register an authenticator app.
type Enrollment struct {
	Secret string
	URL    string
	QRCode []byte // PNG
}

// NewEnrollment generates a TOTP secret and its QR code.
func NewEnrollment(issuer, account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	return &Enrollment{Secret: key.Secret(), URL: key.URL(), QRCode: png}, nil
}
