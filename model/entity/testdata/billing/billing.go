package billing

import "time"

type Versioned struct {
	Version int `json:"version"`
}

type Document struct {
	Versioned
	ID        int64     `json:"id"`
	Number    string    `crud:",ref"`
	CreatedAt time.Time `json:"createdAt"`
	Owner     *Customer `crud:"owner,ref"`
}

//crudr:entity context=Billing
type Invoice struct {
	Document
	Amount   float64       `json:"amount"`
	DueDate  time.Time     `crud:"dueDate,date"`
	Customer *Customer     `json:"customer"`
	Lines    []InvoiceLine `json:"lines"`
	Tags     []string
	Paid     bool
	Note     *string
	Ignored  string `crud:"-"`
	internal int
}

type Customer struct {
	ID   int64
	Name string
}

type Audit struct {
	ChangedBy string `json:"changedBy"`
}

//crudr:entity
type InvoiceLine struct {
	ID       int
	Audit    `crud:",inline"`
	Qty      uint
	Price    float32
	Products []Product `gorm:"many2many:line_products"`
	Profile  Profile   `crud:"profile,rel=oneToOne"`
}

type Product struct {
	ID int
}

type Profile struct {
	ID int
}
