package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// FingerprintSize количество байт дайджеста, попадающих в отпечаток
const FingerprintSize = 8

// Fingerprint возвращает короткий hex-отпечаток текста документа
// Используется в логах и status endpoint вместо полного текста
func Fingerprint(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:FingerprintSize])
}

// SameContent сообщает, совпадают ли отпечатки двух текстов
func SameContent(a, b string) bool {
	return Fingerprint(a) == Fingerprint(b)
}
