package printing

import (
	"encoding/base64"
	"html/template"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// EncodeQR draws content as a PNG QR code of size x size pixels
func EncodeQR(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, NewRenderError(ErrCodeQRFailed, "QR content is empty", nil)
	}
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, NewRenderError(ErrCodeQRFailed, "failed to encode QR code", err)
	}
	return png, nil
}

// PNGDataURL embeds PNG bytes into an <img src> value
func PNGDataURL(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// UPIPaymentURI builds the upi://pay link UPI apps scan to pay a bill.
// The payee address keeps its "@" and spaces are sent as %20.
func UPIPaymentURI(vpa, payeeName string, amount decimal.Decimal, note string) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(strings.ReplaceAll(upiEscape(vpa), "%40", "@"))
	if payeeName != "" {
		b.WriteString("&pn=")
		b.WriteString(upiEscape(payeeName))
	}
	b.WriteString("&am=")
	b.WriteString(amount.StringFixed(2))
	b.WriteString("&cu=INR")
	if note != "" {
		b.WriteString("&tn=")
		b.WriteString(upiEscape(note))
	}
	return b.String()
}

func upiEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
