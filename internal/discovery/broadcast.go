package discovery

import (
	"net"
	"strings"
)

// LimitedBroadcast - широковещательный адрес для всех хостов
const LimitedBroadcast = "255.255.255.255"

// BroadcastAddresses возвращает directed broadcast адреса всех поднятых IPv4
// интерфейсов, а за ними limited broadcast.
func BroadcastAddresses() []string {
	var result []string
	seen := make(map[string]struct{})

	ifaces, err := net.Interfaces()
	if err != nil {
		return []string{LimitedBroadcast}
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}
		// docker bridge и veth пары
		if strings.HasPrefix(iface.Name, "br-") || strings.HasPrefix(iface.Name, "veth") {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			bcast, ok := directedBroadcast(ipnet)
			if !ok {
				continue
			}
			if _, dup := seen[bcast]; dup {
				continue
			}
			seen[bcast] = struct{}{}
			result = append(result, bcast)
		}
	}

	if _, ok := seen[LimitedBroadcast]; !ok {
		result = append(result, LimitedBroadcast)
	}
	return result
}

// directedBroadcast вычисляет ip | ^mask для IPv4 сети
func directedBroadcast(ipnet *net.IPNet) (string, bool) {
	if ipnet.IP.IsLoopback() {
		return "", false
	}
	ip4 := ipnet.IP.To4()
	if ip4 == nil {
		return "", false
	}
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	if len(mask) != net.IPv4len {
		return "", false
	}
	// /31 и /32 не имеют широковещательного адреса
	if ones, _ := net.IPMask(mask).Size(); ones >= 31 {
		return "", false
	}

	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = ip4[i] | ^mask[i]
	}
	return bcast.String(), true
}
