package domain

// Protocol identity used for EIP-712 domain separation.
const (
	ProtocolName    = "Consideration"
	ProtocolVersion = "rc.1"
)
