package entity

// AcademicYearStatus ciclo de vida de un año lectivo.
type AcademicYearStatus string

const (
	YearPlanned    AcademicYearStatus = "Planeado"
	YearInProgress AcademicYearStatus = "Em Curso"
	YearConcluded  AcademicYearStatus = "Concluído"
)

// Subject disciplina.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassLevelSubjects disciplinas de una clase (nivel) en un año lectivo.
type ClassLevelSubjects struct {
	ClassLevel string    `json:"classLevel"`
	Subjects   []Subject `json:"subjects"`
	HasExam    bool      `json:"hasExam,omitempty"`
}

// AcademicYear año lectivo con su calendario y plan de disciplinas.
type AcademicYear struct {
	ID              string               `json:"id"`
	Year            int                  `json:"year"`
	Status          AcademicYearStatus   `json:"status"`
	StartMonth      int                  `json:"startMonth"`
	EndMonth        int                  `json:"endMonth"`
	SubjectsByClass []ClassLevelSubjects `json:"subjectsByClass,omitempty"`
}

// TeacherAssignment profesor asignado a una turma con sus disciplinas.
type TeacherAssignment struct {
	TeacherID     string   `json:"teacherId"`
	SubjectIDs    []string `json:"subjectIds"`
	IsSubstitute  bool     `json:"isSubstitute,omitempty"`
	Justification string   `json:"justification,omitempty"`
}

// Turma clase concreta (grupo de alumnos) de un año lectivo.
type Turma struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	AcademicYear int                 `json:"academicYear"`
	ClassLevel   string              `json:"classLevel"`
	Shift        Shift               `json:"shift"`
	Teachers     []TeacherAssignment `json:"teachers"`
	StudentIDs   []string            `json:"studentIds"`
	Room         string              `json:"room,omitempty"`
}
