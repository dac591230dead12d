package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/peernote/internal/peer"
)

// PeerSource перечисляет подключенных пиров
type PeerSource interface {
	DistinctIPs() []string
}

// NicknameFunc возвращает отображаемое имя для ip
type NicknameFunc func(ip string) string

// TargetsFunc перечисляет адреса, к которым узел подключается или подключался
type TargetsFunc func() []TargetInfo

// PeersHandler обрабатывает запросы списка пиров
type PeersHandler struct {
	logger   *slog.Logger
	peers    PeerSource
	nickname NicknameFunc
	targets  TargetsFunc
}

// NewPeersHandler создает handler списка пиров
func NewPeersHandler(logger *slog.Logger, peers PeerSource, nickname NicknameFunc, targets TargetsFunc) *PeersHandler {
	if nickname == nil {
		nickname = func(ip string) string { return ip }
	}
	if targets == nil {
		targets = func() []TargetInfo { return nil }
	}
	return &PeersHandler{logger: logger, peers: peers, nickname: nickname, targets: targets}
}

// PeerInfo описывает одного подключенного пира
type PeerInfo struct {
	IP       string `json:"ip"`
	Nickname string `json:"nickname"`
}

// TargetInfo описывает исходящее подключение и его состояние
type TargetInfo struct {
	IP       string `json:"ip"`
	Nickname string `json:"nickname"`
	State    string `json:"state"`
}

// PeersResponse - тело ответа GET /api/v1/peers
type PeersResponse struct {
	Count   int          `json:"count"`
	Health  string       `json:"health"`
	Peers   []PeerInfo   `json:"peers"`
	Targets []TargetInfo `json:"targets"`
}

// List обрабатывает GET /api/v1/peers
func (h *PeersHandler) List(w http.ResponseWriter, r *http.Request) {
	ips := h.peers.DistinctIPs()

	resp := PeersResponse{
		Count:  len(ips),
		Health: peer.Health(len(ips)),
		Peers:  make([]PeerInfo, 0, len(ips)),
	}
	for _, ip := range ips {
		resp.Peers = append(resp.Peers, PeerInfo{IP: ip, Nickname: h.nickname(ip)})
	}
	resp.Targets = append([]TargetInfo{}, h.targets()...)

	writeJSON(w, h.logger, http.StatusOK, resp)
}
