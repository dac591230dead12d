package models

// Snapshot представляет полное состояние документа, помеченное Lamport timestamp.
// Это единица репликации и резервного копирования: документ никогда не
// передается фрагментами, только целиком.
type Snapshot struct {
	Text    string `json:"text"`    // Text полный текст документа
	Lamport int64  `json:"lamport"` // Lamport timestamp локального события, создавшего этот снимок
}

// IsNewerThan сравнивает два снимка по правилу LWW (Last-Write-Wins).
// Возвращает true только если timestamp строго больше: при равенстве
// побеждает уже имеющийся снимок.
func (s *Snapshot) IsNewerThan(other *Snapshot) bool {
	if other == nil {
		return true
	}
	return s.Lamport > other.Lamport
}

// Latest выбирает кандидата с наибольшим Lamport timestamp.
// При равных timestamp выигрывает первый встреченный кандидат.
// Возвращает false, если кандидатов нет.
func Latest(candidates []Snapshot) (Snapshot, bool) {
	if len(candidates) == 0 {
		return Snapshot{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.IsNewerThan(&best) {
			best = c
		}
	}

	return best, true
}
