package broken

type BadRelation struct {
	Amount int `crud:"amount,rel=oneToOne"`
}

type Duplicate struct {
	A int `crud:"x"`
	B int `crud:"x"`
}

type UnknownOption struct {
	A int `crud:"a,bogus"`
}

type DateOnString struct {
	A string `crud:"a,date"`
}

type NotStruct int

type SelfEmbedded struct {
	*SelfEmbedded
	ID int
}
