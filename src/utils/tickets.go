package utils

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fbs/src/config"
	"fbs/src/db"
	"fbs/src/lib"
	awslib "fbs/src/lib/aws"
	"fbs/src/lib/mailer"
	"fbs/src/models"
	"fbs/src/types"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

// SendBookingConfirmation mails the itinerary to the booking contact. The
// message goes through the email queue like everything else outbound.
func SendBookingConfirmation(bk *models.Booking) {
	database := db.GetDb()
	var full models.Booking
	if err := database.
		Where(&models.Booking{ID: bk.ID}).
		Preload("Legs.Trip.Route").
		Preload("Legs.Passengers").
		First(&full).
		Error; err != nil {
		log.Printf("Error loading booking %d for confirmation email: %s\n", bk.ID, err.Error())
		return
	}
	body := fmt.Sprintf("Your booking %s is confirmed.\n\n", full.BookingNumber)
	for _, leg := range full.Legs {
		body += fmt.Sprintf("%s: %s to %s on %s at %s\n",
			leg.Leg,
			leg.Trip.Route.Origin,
			leg.Trip.Route.Destination,
			leg.Trip.TravelDate.Format(config.DATE_PARSE_FORMAT),
			leg.Trip.DepartureTime,
		)
		for _, p := range leg.Passengers {
			body += fmt.Sprintf("  Seat %s: %s (boarding code %s)\n", p.SeatCode, p.FullName, p.BoardingCode)
		}
	}
	body += fmt.Sprintf("\nTotal paid: %.2f %s\n", full.AmountPaid, full.Currency)
	err := mailer.NewMailerMessage(&lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: os.Getenv("MAIL_FROM_NAME"),
		To:       []string{full.ContactEmail},
		Subject:  fmt.Sprintf("Booking confirmation %s", full.BookingNumber),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error queueing confirmation email for %s: %s\n", full.BookingNumber, err.Error())
	}
}

// GenerateBoardingPass renders a passenger's boarding QR, uploads it to
// the documents bucket and returns a signed download link. The link is
// cached in redis so repeat downloads skip the render.
func GenerateBoardingPass(passengerID uint) (string, error) {
	cacheKey := fmt.Sprintf("boarding-pass:%d", passengerID)
	rd := lib.GetRedisClient()
	if cached, err := rd.Get(context.Background(), cacheKey).Result(); err == nil && cached != "" {
		return cached, nil
	}

	database := db.GetDb()
	var passenger models.Passenger
	if err := database.
		Where(&models.Passenger{ID: passengerID}).
		Preload("BookingLeg.Booking").
		Preload("BookingLeg.Trip.Route").
		First(&passenger).
		Error; err != nil {
		return "", err
	}
	booking := passenger.BookingLeg.Booking
	if booking.Status != types.BOOKING_CONFIRMED && booking.Status != types.BOOKING_MODIFIED {
		return "", errors.New("boarding passes are only issued for confirmed bookings")
	}

	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		return "", err
	}
	encrypted, err := EncryptMessage(key, passenger.BoardingCode)
	if err != nil {
		log.Printf("Error encrypting boarding code: %s\n", err.Error())
		return "", err
	}
	qrc, err := qrcode.New(encrypted)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		log.Printf("Could not render qrcode for passenger %d: %s\n", passengerID, err.Error())
		return "", err
	}

	objectKey := fmt.Sprintf("boarding-passes/%s/%d.jpeg", booking.BookingNumber, passengerID)
	if err := awslib.S3UploadObject(objectKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	signedURL, err := awslib.S3GetSignedURL(objectKey, 2*time.Hour)
	if err != nil {
		return "", err
	}
	rd.SetEx(context.Background(), cacheKey, signedURL, 2*time.Hour)
	return signedURL, nil
}

// GenerateTicketPDF builds the printable itinerary for a booking.
func GenerateTicketPDF(bookingID uint) ([]byte, error) {
	database := db.GetDb()
	var bk models.Booking
	if err := database.
		Where(&models.Booking{ID: bookingID}).
		Preload("Legs.Trip.Route").
		Preload("Legs.Passengers").
		First(&bk).
		Error; err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ferry Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FERRY TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Booking: %s", bk.BookingNumber))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", bk.Status))
	pdf.Ln(10)

	for _, leg := range bk.Legs {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("%s: %s -> %s", leg.Leg, leg.Trip.Route.Origin, leg.Trip.Route.Destination))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 7, fmt.Sprintf("Date: %s  Departure: %s", leg.Trip.TravelDate.Format(config.DATE_PARSE_FORMAT), leg.Trip.DepartureTime))
		pdf.Ln(7)
		for _, p := range leg.Passengers {
			pdf.Cell(0, 7, fmt.Sprintf("Seat %s  %s  (boarding code %s)", p.SeatCode, p.FullName, p.BoardingCode))
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Total: %.2f %s. Present a boarding pass for each passenger at departure.", bk.Total, bk.Currency), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckInPassenger marks one passenger boarded from a scanned QR payload.
// Already-boarded codes and codes on voided bookings are rejected.
func CheckInPassenger(encrypted string) (*models.Passenger, error) {
	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		return nil, err
	}
	code, err := DecryptMessage(key, encrypted)
	if err != nil {
		return nil, errors.New("invalid boarding code")
	}

	database := db.GetDb()
	var passenger models.Passenger
	err = database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.Passenger{BoardingCode: *code}).
			Preload("BookingLeg.Booking").
			Preload("BookingLeg.Trip").
			First(&passenger).
			Error; err != nil {
			return errors.New("boarding code not found")
		}
		status := passenger.BookingLeg.Booking.Status
		if status != types.BOOKING_CONFIRMED && status != types.BOOKING_MODIFIED {
			return errors.New("booking is not valid for boarding")
		}
		if passenger.BoardedAt != nil {
			return errors.New("passenger already boarded")
		}
		now := time.Now()
		return tx.
			Model(&models.Passenger{}).
			Where(&models.Passenger{ID: passenger.ID}).
			Update("boarded_at", now).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &passenger, nil
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, errors.New("message too short")
	}
	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
