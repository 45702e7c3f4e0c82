package entity

import "github.com/shopspring/decimal"

func init() {
	// El almacén remoto y la capa de presentación esperan números JSON, no strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ExpenseRecord gasto de la escuela.
type ExpenseRecord struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	RegisteredBy string          `json:"registeredBy"`
	StudentID    string          `json:"studentId,omitempty"`
	IsChargeable bool            `json:"isChargeable,omitempty"`
}

// UniformItem artículo de uniforme a la venta.
type UniformItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// BookItem libro a la venta por clase.
type BookItem struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	ClassLevel string          `json:"classLevel"`
	Price      decimal.Decimal `json:"price"`
}

// ClassSpecificFee tasas que sustituyen a las generales para una clase.
type ClassSpecificFee struct {
	ClassLevel    string          `json:"classLevel"`
	EnrollmentFee decimal.Decimal `json:"enrollmentFee"`
	RenewalFee    decimal.Decimal `json:"renewalFee"`
	MonthlyFee    decimal.Decimal `json:"monthlyFee"`
}

// MobilePaymentConfig códigos de comerciante de las carteras móviles.
type MobilePaymentConfig struct {
	MpesaCode string `json:"mpesaCode,omitempty"`
	EmolaCode string `json:"emolaCode,omitempty"`
	MkeshCode string `json:"mkeshCode,omitempty"`
}

// FinancialSettings configuración financiera de la escuela (registro único).
type FinancialSettings struct {
	Currency                  string               `json:"currency"`
	EnrollmentFee             decimal.Decimal      `json:"enrollmentFee"`
	RenewalFee                decimal.Decimal      `json:"renewalFee"`
	MonthlyFee                decimal.Decimal      `json:"monthlyFee"`
	AnnualExamFee             decimal.Decimal      `json:"annualExamFee"`
	TransferFee               decimal.Decimal      `json:"transferFee"`
	MonthlyPaymentLimitDay    int                  `json:"monthlyPaymentLimitDay"`
	LatePaymentPenaltyPercent decimal.Decimal      `json:"latePaymentPenaltyPercent"`
	Uniforms                  []UniformItem        `json:"uniforms"`
	Books                     []BookItem           `json:"books"`
	ClassSpecificFees         []ClassSpecificFee   `json:"classSpecificFees,omitempty"`
	EnableMobilePayments      bool                 `json:"enableMobilePayments,omitempty"`
	MobilePaymentConfig       *MobilePaymentConfig `json:"mobilePaymentConfig,omitempty"`
}

// DefaultFinancialSettings valores con los que arranca una escuela sin configuración.
func DefaultFinancialSettings() FinancialSettings {
	return FinancialSettings{
		Currency:                  "MZN",
		EnrollmentFee:             decimal.NewFromInt(2500),
		RenewalFee:                decimal.NewFromInt(1500),
		MonthlyFee:                decimal.NewFromInt(5000),
		AnnualExamFee:             decimal.NewFromInt(1000),
		TransferFee:               decimal.NewFromInt(500),
		MonthlyPaymentLimitDay:    10,
		LatePaymentPenaltyPercent: decimal.NewFromInt(10),
		Uniforms:                  []UniformItem{},
		Books:                     []BookItem{},
	}
}

// Weights pesos de dos componentes de evaluación.
type Weights struct {
	P1 float64 `json:"p1"`
	P2 float64 `json:"p2"`
}

// ExamWeights peso de la nota interna frente al examen.
type ExamWeights struct {
	Internal float64 `json:"internal"`
	Exam     float64 `json:"exam"`
}

// SchoolSettings datos institucionales y capacidad física (registro único).
type SchoolSettings struct {
	SchoolName        string       `json:"schoolName,omitempty"`
	SchoolLogo        string       `json:"schoolLogo,omitempty"`
	NUIT              string       `json:"nuit,omitempty"`
	Address           string       `json:"address,omitempty"`
	Contact           string       `json:"contact,omitempty"`
	Email             string       `json:"email,omitempty"`
	TotalClassrooms   int          `json:"totalClassrooms"`
	StudentsPerClass  int          `json:"studentsPerClass"`
	Shifts            int          `json:"shifts"`
	EvaluationWeights *Weights     `json:"evaluationWeights,omitempty"`
	ExamWeights       *ExamWeights `json:"examWeights,omitempty"`
}

// DefaultSchoolSettings valores con los que arranca una escuela sin configuración.
func DefaultSchoolSettings() SchoolSettings {
	return SchoolSettings{TotalClassrooms: 10, StudentsPerClass: 25, Shifts: 2}
}
