package odm

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/jinzhu/copier"
)

type DbModel interface {
	Id() string
	CollectionName() string
}

func NewModelFrom[T any](proto interface{}) *T {
	model := new(T)
	_ = copier.Copy(model, proto)
	return model
}

// HashedKey derives a short deterministic document id from the given fields.
// Field order matters; no fields yields an empty key.
func HashedKey(fields ...string) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	h := sha256.New()
	for _, field := range fields {
		if _, err := io.WriteString(h, field); err != nil {
			return "", err
		}
		// separator keeps ("ab","c") distinct from ("a","bc")
		if _, err := h.Write([]byte{0}); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:6]), nil
}
