package cerr

type Code int

const (
	OK                 = Code(0)
	Canceled           = Code(1)
	Unknown            = Code(2)
	InvalidArgument    = Code(3)
	DeadlineExceeded   = Code(4)
	NotFound           = Code(5)
	AlreadyExists      = Code(6)
	FailedPrecondition = Code(9)
	Internal           = Code(13)
	Unavailable        = Code(14)
)

var codeNames = map[Code]string{
	OK:                 "OK",
	Canceled:           "Canceled",
	Unknown:            "Unknown",
	InvalidArgument:    "InvalidArgument",
	DeadlineExceeded:   "DeadlineExceeded",
	NotFound:           "NotFound",
	AlreadyExists:      "AlreadyExists",
	FailedPrecondition: "FailedPrecondition",
	Internal:           "Internal",
	Unavailable:        "Unavailable",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Severe reports whether errors with this code should capture a stack
// trace when created.
func (c Code) Severe() bool {
	switch c {
	case Unknown, Internal, Unavailable:
		return true
	}
	return false
}
