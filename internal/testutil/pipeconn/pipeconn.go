// Package pipeconn дает пары net.Conn в памяти с заданными адресами
// для тестов, которым нужно различать пиров по IP.
package pipeconn

import (
	"net"
)

type addr string

func (a addr) Network() string { return "tcp" }
func (a addr) String() string  { return string(a) }

// Conn - один конец pipe в памяти с фиксированными адресами
type Conn struct {
	net.Conn
	local  net.Addr
	remote net.Addr
}

func (c *Conn) LocalAddr() net.Addr  { return c.local }
func (c *Conn) RemoteAddr() net.Addr { return c.remote }

// New возвращает два связанных конца. Первый сообщает remoteAddr как
// удаленный адрес (это "наша" сторона соединения с remoteAddr),
// второй - сторона удаленного процесса.
func New(localAddr, remoteAddr string) (*Conn, *Conn) {
	a, b := net.Pipe()
	return &Conn{Conn: a, local: addr(localAddr), remote: addr(remoteAddr)},
		&Conn{Conn: b, local: addr(remoteAddr), remote: addr(localAddr)}
}
