package config

import "time"

// Default returns a Config carrying every built-in dictionary.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Port:        8080,
			BodyLimitMB: 20,
			ReadTimeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			TenureMonths:      120,
			AnnualRatePercent: 10,
			MaxFOIRPercent:    50,
		},
		Dictionaries: Dictionaries{
			Categories:   DefaultCategories(),
			Income:       defaultIncome(),
			FOIR:         defaultFOIR(),
			Fraud:        defaultFraud(),
			Behavior:     defaultBehavior(),
			Risk:         defaultRisk(),
			Alerts:       defaultAlerts(),
			Counterparty: defaultCounterparty(),
			GST:          GST{Keywords: []string{"gst", "gstr", "goods and services tax", "pmt-06", "pmt06"}},
			Bank:         defaultBank(),
		},
	}
}

// Category names referenced by the analyzers.
const (
	CategorySalary = "Salary"
	CategoryLoans  = "Loans & EMI"
)

var (
	salaryKeywords   = []string{"salary", "sal cr", "sal credit", "payroll", "wages", "remuneration", "gross pay", "net salary", "monthly salary", "sal-", "salary credit"}
	gamblingKeywords = []string{"bet", "betting", "casino", "gamble", "gambling", "lottery", "rummy", "poker", "fantasy", "dream11", "my11circle", "betway", "bet365"}
	cashDeposits     = []string{"cash dep", "cash deposit", "cdn", "cash cr", "atm dep"}
	atmWithdrawals   = []string{"atm", "cash withdrawal", "cash wdl", "atw", "nwd"}
	bounceKeywords   = []string{"cheque return", "chq ret", "return cheque", "bounced cheque", "chq bounce", "cheque bounce", "insufficient funds", "refer to drawer", "payment stopped"}
)

// DefaultCategories returns the ordered categorization table. Earlier rows
// win exact score ties.
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{Name: CategorySalary, Keywords: []string{"salary", "sal", "payroll", "wages", "remuneration", "stipend", "bonus"}},
		{Name: CategoryLoans, Keywords: []string{"emi", "loan", "instalment", "installment", "repayment", "nach", "ecs", "bajaj", "finance"}},
		{Name: "Credit Card", Keywords: []string{"credit card", "cc payment", "card payment", "cc bill", "card due"}},
		{Name: "ATM & Cash", Keywords: []string{"atm", "cash", "withdrawal", "wdl", "nwd", "atw"}},
		{Name: "Investments", Keywords: []string{"sip", "mutual fund", "mf", "zerodha", "groww", "upstox", "nps", "ppf", "equity", "dividend"}},
		{Name: "Insurance", Keywords: []string{"insurance", "lic", "premium", "policy", "hdfc life", "icici pru", "sbi life"}},
		{Name: "Rent", Keywords: []string{"rent", "landlord", "lease", "housing society", "maintenance"}},
		{Name: "Bills & Utilities", Keywords: []string{"electricity", "bescom", "tneb", "water", "gas", "broadband", "airtel", "jio", "vodafone", "bsnl", "recharge", "dth", "tata sky", "bill"}},
		{Name: "Groceries", Keywords: []string{"grocery", "bigbasket", "blinkit", "zepto", "dmart", "reliance fresh", "more supermarket", "kirana", "supermarket"}},
		{Name: "Food & Dining", Keywords: []string{"swiggy", "zomato", "restaurant", "cafe", "food", "dominos", "pizza", "mcdonald", "kfc", "starbucks", "hotel"}},
		{Name: "Shopping", Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho", "shopping", "mall", "retail"}},
		{Name: "Transport", Keywords: []string{"uber", "ola", "rapido", "petrol", "fuel", "diesel", "hpcl", "bpcl", "iocl", "fastag", "metro", "parking"}},
		{Name: "Travel", Keywords: []string{"irctc", "makemytrip", "goibibo", "indigo", "air india", "vistara", "cleartrip", "airbnb", "oyo", "flight", "railway"}},
		{Name: "Health", Keywords: []string{"hospital", "pharmacy", "apollo", "medplus", "1mg", "pharmeasy", "clinic", "diagnostic", "medical", "doctor"}},
		{Name: "Education", Keywords: []string{"school", "college", "university", "tuition", "fees", "byjus", "unacademy", "coursera", "udemy"}},
		{Name: "Entertainment", Keywords: []string{"netflix", "hotstar", "prime video", "spotify", "bookmyshow", "pvr", "inox", "youtube", "gaming"}},
		{Name: "Gambling", Keywords: gamblingKeywords},
		{Name: "Taxes", Keywords: []string{"gst", "tds", "income tax", "advance tax", "challan", "tax"}},
		{Name: "Bank Charges", Keywords: []string{"charges", "chrg", "fee", "penalty", "sms alert", "annual fee", "min bal", "return charge"}},
		{Name: "Interest", Keywords: []string{"interest", "int cr", "int.pd", "sb int"}},
		{Name: "Transfers", Keywords: []string{"neft", "imps", "rtgs", "upi", "transfer", "trf", "self", "google pay", "phonepe", "paytm"}},
	}
}

func defaultIncome() Income {
	return Income{
		SalaryKeywords:     salaryKeywords,
		RentalKeywords:     []string{"rent received", "rental income", "rent cr"},
		InvestmentKeywords: []string{"dividend", "interest credited", "mutual fund", "capital gain"},
		FreelanceKeywords:  []string{"freelance", "consulting", "professional fee", "service charge"},
		CashKeywords:       []string{"cash dep", "cash deposit", "cdn", "cash"},
	}
}

func defaultFOIR() FOIR {
	return FOIR{
		SalaryKeywords:      []string{"salary", "sal cr", "payroll", "wages", "remuneration", "gross pay"},
		OtherIncomeKeywords: []string{"rent received", "dividend", "interest credited", "freelance", "consulting fee", "commission"},
		ObligationKeywords:  []string{"emi", "loan", "instalment", "installment", "repayment", "credit card", "cc payment", "card payment", "cc bill"},
		HomeKeywords:        []string{"home", "housing", "mortgage"},
		PersonalKeywords:    []string{"personal"},
		CreditCardKeywords:  []string{"credit card", "cc payment", "card payment", "cc bill"},
		AutoKeywords:        []string{"auto", "car", "vehicle"},
		BusinessKeywords:    []string{"business loan", "working capital", "msme loan", "mudra"},
		EducationKeywords:   []string{"education loan", "student loan", "avanse", "credila"},
		HomeLenders:         []string{"lic housing", "pnb housing", "indiabulls", "dewan housing", "hdfc", "icici", "sbi", "axis", "kotak"},
		PersonalLenders:     []string{"bajaj finserv", "fullerton", "tata capital", "moneytap", "earlysalary", "paysense", "cashe"},
		AutoLenders:         []string{"hdfc bank auto", "icici auto", "sbi auto", "mahindra finance", "cholamandalam", "shriram transport"},
		BusinessLenders:     []string{"mudra", "sidbi"},
		EducationLenders:    []string{"avanse", "credila"},
		CardIssuers:         []string{"hdfc", "icici", "sbi", "axis", "citi", "amex", "standard chartered"},
	}
}

func defaultFraud() Fraud {
	return Fraud{
		NBFCLenders: []string{
			"bajaj finserv", "bajaj finance", "fullerton", "tata capital", "mahindra finance", "cholamandalam",
			"shriram", "muthoot", "manappuram", "iifl", "indiabulls", "aditya birla", "hero fincorp",
			"l&t finance", "pnb housing", "lic housing",
		},
		PaydayLenders: []string{
			"moneytap", "earlysalary", "paysense", "cashe", "kissht", "zestmoney", "lazypay", "simpl",
			"flexsalary", "salary advance", "creditt", "instacred",
		},
		P2PLenders:         []string{"lendenclub", "faircent", "i2ifunding", "lendbox", "12%club", "indialends"},
		CryptoExchanges:    []string{"wazirx", "coinswitch", "coindcx", "binance", "zebpay", "unocoin", "buyucoin", "bitbns", "koinex", "crypto", "bitcoin", "btc"},
		GamblingKeywords:   gamblingKeywords,
		CashKeywords:       cashDeposits,
		EMIKeywords:        []string{"emi", "loan"},
		TransferKeywords:   []string{"upi", "imps", "neft", "google pay", "phonepe", "paytm"},
		TransferExclusions: []string{"salary", "pvt", "ltd", "company"},
	}
}

func defaultBehavior() Behavior {
	return Behavior{
		MinimumBalance:        10000,
		MinimumVintageMonths:  6,
		DigitalKeywords:       []string{"upi", "imps", "neft", "rtgs", "google pay", "phonepe", "paytm", "online"},
		InternationalKeywords: []string{"intl", "international", "forex", "usd", "eur", "gbp", "aed"},
		OverdraftKeywords:     []string{"od", "overdraft"},
		ChequeKeywords:        []string{"cheque", "chq", "check"},
		InsuranceKeywords:     []string{"lic", "insurance", "icici pru", "hdfc life", "sbi life", "policy premium"},
		SIPKeywords:           []string{"sip", "mutual fund", "mf", "systematic investment"},
		RDKeywords:            []string{"rd", "recurring deposit", "savings plan"},
		LateFeeKeywords:       []string{"late fee", "late payment", "overdue", "penalty"},
		EMIBounceKeywords:     []string{"emi return", "emi bounce", "loan emi returned"},
		InwardReturnKeywords:  []string{"cheque return inward", "inward chq return", "deposited cheque returned"},
		OutwardReturnKeywords: []string{"cheque return outward", "outward chq return", "issued cheque returned", "chq bounce"},
		ReturnChargeKeywords:  []string{"cheque return charges", "chq return charge", "bounce charges"},
	}
}

func defaultRisk() Risk {
	return Risk{
		SalaryCategory:   CategorySalary,
		LoanCategory:     CategoryLoans,
		ATMKeywords:      atmWithdrawals,
		BounceKeywords:   bounceKeywords,
		EMIKeywords:      []string{"emi", "loan", "instalment", "installment"},
		GamblingKeywords: gamblingKeywords,
	}
}

func defaultAlerts() Alerts {
	return Alerts{
		LowBalance:          1000,
		LargeCashWithdrawal: 50000,
		CashKeywords:        []string{"atm", "cash withdrawal", "cash wdl", "cash", "self"},
		BounceKeywords:      bounceKeywords,
	}
}

func defaultCounterparty() Counterparty {
	return Counterparty{
		SkipKeywords:       []string{"atm", "cash withdrawal", "cash wdl", "nwd", "atw"},
		SalaryKeywords:     []string{"salary", "payroll", "wages"},
		LoanKeywords:       []string{"loan", "emi"},
		InvestmentKeywords: []string{"mutual fund", "sip", "stock", "equity"},
		UtilityKeywords:    []string{"electric", "water", "gas", "telecom", "internet", "mobile"},
		CashKeywords:       []string{"atm", "cash"},
		GamblingKeywords:   []string{"bet", "casino", "lottery", "gambling"},
	}
}

func defaultBank() Bank {
	return Bank{
		SalaryKeywords:       []string{"salary", "payroll"},
		EMIKeywords:          []string{"emi", "loan emi", "loanemi", "si-emi", "ecs-emi"},
		ATMKeywords:          []string{"atm withdrawal", "atm wdl", "cash withdrawal"},
		ChequeReturnKeywords: []string{"chq ret", "cheque return", "return chq", "rd chq"},
		MinRecurring:         3,
		TopRecurring:         10,
	}
}
