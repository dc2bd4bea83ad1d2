// Package qr renders the pairing QR image shown on the desktop.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is the rendered PNG edge length in pixels.
const imageSize = 256

// PayloadType identifies a pairing payload to the mobile scanner.
const PayloadType = "smartdesk_connection"

// Payload is the JSON embedded in the pairing QR image. Scanning it gives
// the mobile app everything it needs to connect and submit the code.
type Payload struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Hostname string `json:"hostname"`
}

// NewPayload builds a pairing payload for the given code and host identity.
func NewPayload(code, ip string, port int, hostname string) Payload {
	return Payload{
		Type:     PayloadType,
		Code:     code,
		IP:       ip,
		Port:     port,
		Hostname: hostname,
	}
}

// DataURL renders the payload as a base64 PNG data URL.
func DataURL(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("qr: marshal payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Low, imageSize)
	if err != nil {
		return "", fmt.Errorf("qr: encode: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
