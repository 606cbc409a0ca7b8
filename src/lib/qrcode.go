package lib

import (
	"log"
	"os"
	"path/filepath"

	"github.com/yeqown/go-qrcode"
)

// GenerateQRCode encodes text into a JPEG image at dir/name and returns the
// file path.
func GenerateQRCode(text string, dir string, name string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	qrc, err := qrcode.New(text)
	if err != nil {
		log.Printf("Could not generate QR code: %s\n", err.Error())
		return "", err
	}
	fp := filepath.Join(dir, name)
	if err := qrc.Save(fp); err != nil {
		log.Printf("Could not save QR code: %s\n", err.Error())
		return "", err
	}
	return fp, nil
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
