package banks

// Directory codes for the banks with dedicated statement extractors.
const (
	HDFC   = "HDFC"
	ICICI  = "ICICI"
	SBI    = "SBI"
	Axis   = "AXIS"
	Kotak  = "KOTAK"
	PNB    = "PNB"
	Canara = "CANARA"
)

// DefaultDirectory returns the built-in bank directory.
func DefaultDirectory() []Bank {
	return []Bank{
		{Code: HDFC, Name: "HDFC Bank", IFSCPrefix: "HDFC", Markers: []string{"hdfc bank"},
			Patterns: []string{"HDFC BANK", "HDFC", "H D F C", "HOUSING DEVELOPMENT FINANCE CORPORATION"}},
		{Code: ICICI, Name: "ICICI Bank", IFSCPrefix: "ICIC", Markers: []string{"icici bank"},
			Patterns: []string{"ICICI BANK", "ICICI", "I C I C I"}},
		{Code: SBI, Name: "State Bank of India", IFSCPrefix: "SBIN", Markers: []string{"state bank of india"},
			Patterns: []string{"STATE BANK OF INDIA", "STATE BANK", "S B I"}},
		{Code: Axis, Name: "Axis Bank", IFSCPrefix: "UTIB", Markers: []string{"axis bank"},
			Patterns: []string{"AXIS BANK", "A X I S"}},
		{Code: Kotak, Name: "Kotak Mahindra Bank", IFSCPrefix: "KKBK", Markers: []string{"kotak"},
			Patterns: []string{"KOTAK MAHINDRA", "KOTAK BANK", "KOTAK"}},
		{Code: PNB, Name: "Punjab National Bank", IFSCPrefix: "PUNB", Markers: []string{"punjab national bank"},
			Patterns: []string{"PUNJAB NATIONAL BANK", "P N B"}},
		{Code: Canara, Name: "Canara Bank", IFSCPrefix: "CNRB", Markers: []string{"canara bank"},
			Patterns: []string{"CANARA BANK", "CANARA"}},
		{Code: "BOB", Name: "Bank of Baroda", IFSCPrefix: "BARB", Markers: []string{"bank of baroda"},
			Patterns: []string{"BANK OF BARODA", "B O B"}},
		{Code: "UNION", Name: "Union Bank of India", IFSCPrefix: "UBIN", Markers: []string{"union bank of india"},
			Patterns: []string{"UNION BANK OF INDIA", "UNION BANK"}},
		{Code: "INDIAN", Name: "Indian Bank", IFSCPrefix: "IDIB", Markers: []string{"indian bank"},
			Patterns: []string{"INDIAN BANK"}},
	}
}
