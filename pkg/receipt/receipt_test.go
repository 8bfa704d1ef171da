package receipt

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReceipt(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, imaging.Save(imaging.New(400, 1000, color.White), src))
	return src
}

func TestScanExtractsAmount(t *testing.T) {
	s := NewTesseractScanner()
	s.recognize = func(string) (string, error) { return "Chai 20.00\nTOTAL 120.50\n", nil }

	res, err := s.Scan(context.Background(), writeReceipt(t))
	require.NoError(t, err)
	assert.Equal(t, "120.5", res.Amount.String())
}

func TestScanNoAmount(t *testing.T) {
	s := NewTesseractScanner()
	s.recognize = func(string) (string, error) { return "thank you", nil }

	_, err := s.Scan(context.Background(), writeReceipt(t))
	assert.ErrorIs(t, err, ErrNoAmount)

	s.recognize = func(string) (string, error) { return "", errors.New("engine down") }
	_, err = s.Scan(context.Background(), writeReceipt(t))
	assert.ErrorContains(t, err, "engine down")
}

func TestScanReturnsOnCancel(t *testing.T) {
	release := make(chan struct{})
	prepared := make(chan string, 1)
	s := NewTesseractScanner()
	s.recognize = func(path string) (string, error) {
		prepared <- path
		<-release
		return "TOTAL 10.00", nil
	}

	src := writeReceipt(t)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := s.Scan(ctx, src)
		errCh <- err
	}()
	path := <-prepared
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Scan did not return after cancel")
	}

	close(release)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}
