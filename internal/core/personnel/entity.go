package personnel

import "time"

// Type は人員区分を表します。
type Type string

const (
	TypeEngineer Type = "engineer"
	TypeIntern   Type = "intern"
)

// Person は人員レコードです。
type Person struct {
	ID          string
	Name        string
	Type        Type
	DateOfBirth *time.Time
	Company     string
	Position    string
	StartDate   time.Time
	Email       *string
	Phone       *string
	// DriveFolderName は最後の保存時点の Name と DateOfBirth から導出されます。
	DriveFolderName *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CompanySummary は現在の所属会社ごとの人数集計です。
type CompanySummary struct {
	Company   string
	Engineers int
	Interns   int
}

// Total は集計対象の合計人数を返します。
func (s CompanySummary) Total() int {
	return s.Engineers + s.Interns
}
