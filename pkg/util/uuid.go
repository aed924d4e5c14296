package util

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// Md5ThenHex is a quick hasher
func Md5ThenHex(value []byte) string {
	hasher := md5.New()
	hasher.Write(value)
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashUUID derives a stable UUID from any JSON-serializable value.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hasher := md5.New()
	hasher.Write([]byte(raw))
	hash := hasher.Sum(nil)
	uuid, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return ""
	}
	return uuid.String()
}

// ScanID derives a stable identifier for one scanned frame from its
// dimensions and pixel content, so repeated decodes of the same image
// correlate in logs.
func ScanID(width, height int, pixels []byte) string {
	hasher := md5.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(width))
	binary.LittleEndian.PutUint32(dims[4:], uint32(height))
	hasher.Write(dims[:])
	hasher.Write(pixels)
	hash := hasher.Sum(nil)
	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return ""
	}
	return id.String()
}
