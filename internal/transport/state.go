package transport

import "fmt"

// State - состояние подключения к одной цели
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StatusEvent сообщает о подключении или отключении пира
type StatusEvent struct {
	IP       string
	Nickname string
	Joined   bool
	// Peers - число различных подключенных IP после изменения
	Peers int
}

// String выводит событие как "2 peers online | 10.0.0.2 (bob) joined"
func (e StatusEvent) String() string {
	plural := "s"
	if e.Peers == 1 {
		plural = ""
	}
	action := "left"
	if e.Joined {
		action = "joined"
	}
	name := e.Nickname
	if name == "" {
		name = e.IP
	}
	return fmt.Sprintf("%d peer%s online | %s (%s) %s", e.Peers, plural, e.IP, name, action)
}
