package peer

import (
	"sort"
	"sync"
)

// Registry - множество живых соединений с пирами по удаленному адресу.
// Охраняет только членство, порядок отправки - забота соединения.
// Несколько соединений к одному IP могут сосуществовать (стороны звонят
// друг другу одновременно), но считаются один раз.
type Registry struct {
	conns map[string]*Conn
	mu    sync.Mutex
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Add добавляет c. Повторное добавление ничего не делает, результат
// сообщает, был ли c добавлен впервые.
func (r *Registry) Add(c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.conns[c.RemoteAddr()]; ok && existing == c {
		return false
	}
	r.conns[c.RemoteAddr()] = c
	return true
}

// Remove удаляет c, если он еще зарегистрирован. Закрытие потока остается
// вызывающему, вне блокировки реестра.
func (r *Registry) Remove(c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.conns[c.RemoteAddr()]
	if !ok || existing != c {
		return false
	}
	delete(r.conns, c.RemoteAddr())
	return true
}

// Snapshot возвращает соединения, упорядоченные по удаленному адресу
func (r *Registry) Snapshot() []*Conn {
	r.mu.Lock()
	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].RemoteAddr() < out[j].RemoteAddr()
	})
	return out
}

// DistinctIPs возвращает отсортированное множество подключенных IP
func (r *Registry) DistinctIPs() []string {
	r.mu.Lock()
	seen := make(map[string]struct{}, len(r.conns))
	for _, c := range r.conns {
		seen[c.IP()] = struct{}{}
	}
	r.mu.Unlock()

	ips := make([]string, 0, len(seen))
	for ip := range seen {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}

// Count возвращает число различных подключенных IP
func (r *Registry) Count() int {
	return len(r.DistinctIPs())
}

// HasIP сообщает, есть ли хотя бы одно соединение с ip
func (r *Registry) HasIP(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.conns {
		if c.IP() == ip {
			return true
		}
	}
	return false
}

// Len возвращает общее число зарегистрированных соединений
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.conns)
}
