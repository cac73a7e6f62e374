package godtc

/*
Bit 7 Malfunction indicator lamp on
Bit 0-6 Number of stored DTCs

The lower bits are additionally read as flags:
Bit 0 Current error
Bit 1 Pending error
Bit 2 Confirmed error
Bit 3 EGR system
Bit 4 Oxygen sensor
Bit 5 Catalyst
*/

// Status is the decoded monitor status byte.
type Status struct {
	MILActive      bool `json:"milActive" cbor:"milActive"`
	DTCCount       int  `json:"dtcCount" cbor:"dtcCount"`
	CurrentError   bool `json:"currentError" cbor:"currentError"`
	PendingError   bool `json:"pendingError" cbor:"pendingError"`
	ConfirmedError bool `json:"confirmedError" cbor:"confirmedError"`
	EGRSystem      bool `json:"egrSystem" cbor:"egrSystem"`
	OxygenSensor   bool `json:"oxygenSensor" cbor:"oxygenSensor"`
	Catalyst       bool `json:"catalyst" cbor:"catalyst"`
}

func ParseStatus(b byte) Status {
	return Status{
		MILActive:      checkBitSet(b, 7),
		DTCCount:       int(b & 0x7F),
		CurrentError:   checkBitSet(b, 0),
		PendingError:   checkBitSet(b, 1),
		ConfirmedError: checkBitSet(b, 2),
		EGRSystem:      checkBitSet(b, 3),
		OxygenSensor:   checkBitSet(b, 4),
		Catalyst:       checkBitSet(b, 5),
	}
}

func checkBitSet(b byte, bit uint) bool {
	return b&(1<<bit) != 0
}
