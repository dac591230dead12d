package validation

import (
	"fmt"
	"net"
	"unicode"
	"unicode/utf8"

	"github.com/iudanet/peernote/internal/models"
)

const (
	// MaxNicknameLen максимальная длина никнейма в символах
	MaxNicknameLen = 64
	// MaxPort верхняя граница TCP порта
	MaxPort = 65535
)

// ValidateIP проверяет, что строка является IP адресом
func ValidateIP(ip string) error {
	if ip == "" {
		return fmt.Errorf("ip cannot be empty")
	}

	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid ip address %q", ip)
	}

	return nil
}

// ValidateNickname проверяет никнейм: необязателен, до 64 печатных символов
func ValidateNickname(nickname string) error {
	if utf8.RuneCountInString(nickname) > MaxNicknameLen {
		return fmt.Errorf("nickname must not exceed %d characters", MaxNicknameLen)
	}

	for _, r := range nickname {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("nickname can only contain printable characters")
		}
	}

	return nil
}

// ValidatePort проверяет порт; 0 означает "порт по умолчанию"
func ValidatePort(port int) error {
	if port < 0 || port > MaxPort {
		return fmt.Errorf("port must be between 0 and %d", MaxPort)
	}
	return nil
}

// ValidatePeerEntry проверяет запись статической конфигурации пира
func ValidatePeerEntry(entry models.PeerConfigEntry) error {
	if err := ValidateIP(entry.IP); err != nil {
		return err
	}
	if err := ValidateNickname(entry.Nickname); err != nil {
		return err
	}
	return ValidatePort(entry.Port)
}
