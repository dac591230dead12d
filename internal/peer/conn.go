package peer

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/wire"
)

// DefaultWriteTimeout ограничивает один Send в поток пира
const DefaultWriteTimeout = 10 * time.Second

// Conn - живой двунаправленный поток к одному удаленному процессу.
// Отправки сериализуются мьютексом соединения, чтение принадлежит
// единственной горутине-читателю, которую запускает менеджер соединений.
type Conn struct {
	conn         net.Conn
	id           string
	ip           string
	remoteAddr   string
	servicePort  int
	outbound     bool
	writeTimeout time.Duration
	writeMu      sync.Mutex
	closeOnce    sync.Once
	closeErr     error
}

// NewConn оборачивает установленный поток. servicePort - объявленный сервисный
// порт удаленной стороны, если известен (исходящие и discovery), иначе 0.
func NewConn(c net.Conn, servicePort int, outbound bool) *Conn {
	remote := c.RemoteAddr().String()
	return &Conn{
		conn:         c,
		id:           uuid.New().String(),
		ip:           hostOf(remote),
		remoteAddr:   remote,
		servicePort:  servicePort,
		outbound:     outbound,
		writeTimeout: DefaultWriteTimeout,
	}
}

// ID возвращает локальный для процесса идентификатор для логов
func (c *Conn) ID() string { return c.id }

// IP возвращает удаленный IP адрес
func (c *Conn) IP() string { return c.ip }

// RemoteAddr возвращает удаленный ip:port потока
func (c *Conn) RemoteAddr() string { return c.remoteAddr }

// ServicePort возвращает объявленный сервисный порт удаленной стороны или 0
func (c *Conn) ServicePort() int { return c.servicePort }

// Outbound сообщает, открыт ли поток этой стороной
func (c *Conn) Outbound() bool { return c.outbound }

// Read читает байты из потока
func (c *Conn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

// Send кодирует msg и пишет его одной записью
func (c *Conn) Send(msg models.Message) error {
	data, err := wire.Encode(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send to %s: %w", c.remoteAddr, err)
	}
	return nil
}

// Close закрывает поток. Повторный вызов безопасен.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) String() string {
	return c.remoteAddr
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// JoinHostPort форматирует ip и port в адрес для dial
func JoinHostPort(ip string, port int) string {
	return net.JoinHostPort(ip, strconv.Itoa(port))
}
