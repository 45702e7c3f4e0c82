package entity

import "github.com/shopspring/decimal"

// StudentStatus situación de matrícula del alumno.
type StudentStatus string

const (
	StudentActive      StudentStatus = "Ativo"
	StudentInactive    StudentStatus = "Inativo"
	StudentTransferred StudentStatus = "Transferido"
	StudentSuspended   StudentStatus = "Suspenso"
)

// Term trimestre lectivo.
type Term string

const (
	Term1 Term = "1º Trimestre"
	Term2 Term = "2º Trimestre"
	Term3 Term = "3º Trimestre"
)

// StudentDocuments documentos entregados en la matrícula.
type StudentDocuments struct {
	Photos         bool `json:"photos"`
	Cedula         bool `json:"cedula"`
	BI             bool `json:"bi"`
	DrivingLicense bool `json:"drivingLicense"`
	ReportCard     bool `json:"reportCard"`
	Transcript     bool `json:"transcript"`
	TransferNote   bool `json:"transferNote"`
}

// Grade nota de una disciplina en un trimestre. Los componentes son opcionales.
type Grade struct {
	Subject      string   `json:"subject"`
	Period       Term     `json:"period"`
	Grade        *float64 `json:"grade,omitempty"`
	ACS1         *float64 `json:"acs1,omitempty"`
	ACS2         *float64 `json:"acs2,omitempty"`
	AT           *float64 `json:"at,omitempty"`
	AcademicYear int      `json:"academicYear"`
}

// ExamResult nota de examen final.
type ExamResult struct {
	Subject      string  `json:"subject"`
	Grade        float64 `json:"grade"`
	AcademicYear int     `json:"academicYear"`
}

// AttendanceRecord presencia de un día: Presente, Ausente o Atrasado.
type AttendanceRecord struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// BehaviorNote ocurrencia disciplinar (Positivo/Negativo).
type BehaviorNote struct {
	Date         string `json:"date"`
	Note         string `json:"note"`
	Type         string `json:"type"`
	Severity     string `json:"severity,omitempty"`
	MeasureTaken string `json:"measureTaken,omitempty"`
}

// BehaviorScores puntuaciones de la evaluación de comportamiento.
type BehaviorScores struct {
	Assiduidade      float64 `json:"assiduidade"`
	Disciplina       float64 `json:"disciplina"`
	Participacao     float64 `json:"participacao"`
	Responsabilidade float64 `json:"responsabilidade"`
	Socializacao     float64 `json:"socializacao"`
	Atitude          float64 `json:"atitude"`
	Organizacao      float64 `json:"organizacao"`
}

// BehaviorEvaluation evaluación trimestral de comportamiento.
type BehaviorEvaluation struct {
	Period       Term           `json:"period"`
	AcademicYear int            `json:"academicYear"`
	Scores       BehaviorScores `json:"scores"`
	Percentage   float64        `json:"percentage"`
}

// PaymentItem línea de un pago compuesto (uniforme, libros...).
type PaymentItem struct {
	Item  string          `json:"item"`
	Value decimal.Decimal `json:"value"`
}

// PaymentRecord pago realizado por el encargado de educación.
type PaymentRecord struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"`
	Method         string          `json:"method,omitempty"`
	AcademicYear   int             `json:"academicYear"`
	ReferenceMonth *int            `json:"referenceMonth,omitempty"`
	Description    string          `json:"description,omitempty"`
	Items          []PaymentItem   `json:"items,omitempty"`
	OperatorName   string          `json:"operatorName,omitempty"`
}

// ExtraCharge cargo adicional imputado al alumno (p. ej. daños).
type ExtraCharge struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	ExpenseID   string          `json:"expenseId,omitempty"`
	IsPaid      bool            `json:"isPaid,omitempty"`
}

// FinancialProfile exenciones y descuentos aplicados al alumno.
type FinancialProfile struct {
	Status             string   `json:"status"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	AffectedTypes      []string `json:"affectedTypes,omitempty"`
	Justification      string   `json:"justification,omitempty"`
}

// Student ficha del alumno con su historial académico y financiero.
type Student struct {
	ID                       string               `json:"id"`
	Name                     string               `json:"name"`
	Gender                   string               `json:"gender"`
	BirthDate                string               `json:"birthDate"`
	ProfilePictureURL        string               `json:"profilePictureUrl,omitempty"`
	FatherName               string               `json:"fatherName"`
	MotherName               string               `json:"motherName"`
	GuardianName             string               `json:"guardianName"`
	GuardianContact          string               `json:"guardianContact"`
	GuardianRelationship     string               `json:"guardianRelationship"`
	Address                  string               `json:"address"`
	HealthInfo               string               `json:"healthInfo"`
	DesiredClass             string               `json:"desiredClass"`
	IsTransferred            bool                 `json:"isTransferred"`
	PreviousSchool           string               `json:"previousSchool,omitempty"`
	PreviousSchoolFinalGrade string               `json:"previousSchoolFinalGrade,omitempty"`
	Documents                StudentDocuments     `json:"documents"`
	MatriculationDate        string               `json:"matriculationDate"`
	Status                   StudentStatus        `json:"status"`
	SuspensionDate           string               `json:"suspensionDate,omitempty"`
	Grades                   []Grade              `json:"grades,omitempty"`
	ExamGrades               []ExamResult         `json:"examGrades,omitempty"`
	Attendance               []AttendanceRecord   `json:"attendance,omitempty"`
	Behavior                 []BehaviorNote       `json:"behavior,omitempty"`
	BehaviorEvaluations      []BehaviorEvaluation `json:"behaviorEvaluations,omitempty"`
	Payments                 []PaymentRecord      `json:"payments,omitempty"`
	ExtraCharges             []ExtraCharge        `json:"extraCharges,omitempty"`
	FinancialProfile         *FinancialProfile    `json:"financialProfile,omitempty"`
}
