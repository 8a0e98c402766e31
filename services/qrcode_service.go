// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QREncoder matches qrcode.Encode so tests can substitute it.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// GenerateQRCode renders content as a square PNG of the given size.
func GenerateQRCode(content string, size int, encode QREncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid size: must be positive")
	}
	if content == "" {
		return nil, errors.New("empty QR content")
	}
	return encode(content, qrcode.Medium, size)
}

// QRCodeService builds share codes that point at public catalog pages.
type QRCodeService struct {
	baseURL string
	size    int
	encode  QREncoder
}

func NewQRCodeService(applicationURL string) *QRCodeService {
	return &QRCodeService{
		baseURL: strings.TrimRight(applicationURL, "/"),
		size:    DefaultQRSize,
		encode:  qrcode.Encode,
	}
}

// WithEncoder returns a copy of s that renders with encode.
func (s *QRCodeService) WithEncoder(encode QREncoder) *QRCodeService {
	c := *s
	c.encode = encode
	return &c
}

// CarURL is the public page a car's share code points at.
func (s *QRCodeService) CarURL(id int64) string {
	return fmt.Sprintf("%s/cars/%d", s.baseURL, id)
}

// VideoURL is the public page a video's share code points at.
func (s *QRCodeService) VideoURL(id int64) string {
	return fmt.Sprintf("%s/videos/%d", s.baseURL, id)
}

func (s *QRCodeService) ForCar(id int64) ([]byte, error) {
	return GenerateQRCode(s.CarURL(id), s.size, s.encode)
}

func (s *QRCodeService) ForVideo(id int64) ([]byte, error) {
	return GenerateQRCode(s.VideoURL(id), s.size, s.encode)
}
