package peer

// Уровни индикатора количества пиров
const (
	HealthNone     = "red"
	HealthDegraded = "orange"
	HealthGood     = "green"
)

// Health переводит число подключенных пиров в уровень индикатора:
// никого нет, меньше трех, три и больше.
func Health(count int) string {
	switch {
	case count <= 0:
		return HealthNone
	case count < 3:
		return HealthDegraded
	default:
		return HealthGood
	}
}
