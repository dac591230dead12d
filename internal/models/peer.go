package models

// PeerConfigEntry описывает статически сконфигурированный узел.
// Загружается один раз при старте и далее только читается.
type PeerConfigEntry struct {
	IP       string `json:"ip"`
	Nickname string `json:"nickname,omitempty"`
	Port     int    `json:"port,omitempty"` // Port порт сервиса; 0 означает порт локального сервиса
}

// DisplayName возвращает nickname, а если он не задан - IP адрес.
func (e PeerConfigEntry) DisplayName() string {
	if e.Nickname != "" {
		return e.Nickname
	}
	return e.IP
}
