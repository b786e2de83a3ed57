package voucher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/skip2/go-qrcode"

	"trip-booking/internal/models"
)

// Generator produces QR voucher images shown at the meeting point. The
// payload is encrypted so a voucher cannot be forged from a screenshot
// of someone else's booking number.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

type voucherPayload struct {
	BookingNumber string `json:"booking_number"`
	TripDateID    string `json:"trip_date_id"`
	TravelerCount int    `json:"traveler_count"`
}

// GenerateQR returns a PNG-encoded QR code for the booking.
func (g *Generator) GenerateQR(booking models.Booking) ([]byte, error) {
	data, err := json.Marshal(voucherPayload{
		BookingNumber: booking.BookingNumber,
		TripDateID:    booking.TripDateID,
		TravelerCount: booking.TravelerCount,
	})
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, g.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// DecryptPayload reverses GenerateQR's encryption, used when scanning a
// voucher at departure.
func (g *Generator) DecryptPayload(encoded string) (*models.Booking, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return nil, err
	}
	if len(raw) < aes.BlockSize {
		return nil, io.ErrUnexpectedEOF
	}

	iv := raw[:aes.BlockSize]
	data := make([]byte, len(raw)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, raw[aes.BlockSize:])

	var payload voucherPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	return &models.Booking{
		BookingNumber: payload.BookingNumber,
		TripDateID:    payload.TripDateID,
		TravelerCount: payload.TravelerCount,
	}, nil
}
