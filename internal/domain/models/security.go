package models

// LiquidityLock describes whether a token's LP tokens are locked.
type LiquidityLock struct {
	Locked        bool
	LockTimeDays  int64
	LockedPercent float64
}

// RiskFactors buckets human-readable findings by severity.
type RiskFactors struct {
	High   []string
	Medium []string
	Low    []string
}

// SecurityReport is the result of a contract security audit.
type SecurityReport struct {
	ContractAddress string
	Chain           Chain
	Honeypot        bool
	HoneypotKnown   bool
	LiquidityLock   *LiquidityLock
	Risks           RiskFactors
}
