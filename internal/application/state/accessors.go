package state

import "github.com/jhoicas/escolar/internal/domain/entity"

func snapshot[T any](s *Store, k entity.DomainKey) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl := s.slots[k].(*typedSlot[T])
	return sl.clone(sl.cur)
}

func (s *Store) Users() []entity.User { return snapshot[[]entity.User](s, entity.DomainUsers) }

func (s *Store) Students() []entity.Student {
	return snapshot[[]entity.Student](s, entity.DomainStudents)
}

func (s *Store) AcademicYears() []entity.AcademicYear {
	return snapshot[[]entity.AcademicYear](s, entity.DomainAcademicYears)
}

func (s *Store) Settings() entity.SchoolSettings {
	return snapshot[entity.SchoolSettings](s, entity.DomainSettings)
}

func (s *Store) Financial() entity.FinancialSettings {
	return snapshot[entity.FinancialSettings](s, entity.DomainFinancial)
}

func (s *Store) Turmas() []entity.Turma { return snapshot[[]entity.Turma](s, entity.DomainTurmas) }

func (s *Store) Expenses() []entity.ExpenseRecord {
	return snapshot[[]entity.ExpenseRecord](s, entity.DomainExpenses)
}

func (s *Store) Topics() []entity.DiscussionTopic {
	return snapshot[[]entity.DiscussionTopic](s, entity.DomainTopics)
}

func (s *Store) Messages() []entity.DiscussionMessage {
	return snapshot[[]entity.DiscussionMessage](s, entity.DomainMessages)
}

func (s *Store) Notifications() []entity.Notification {
	return snapshot[[]entity.Notification](s, entity.DomainNotifications)
}

func (s *Store) Requests() []entity.SchoolRequest {
	return snapshot[[]entity.SchoolRequest](s, entity.DomainRequests)
}
