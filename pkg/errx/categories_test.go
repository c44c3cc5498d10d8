package errx

import (
	"errors"
	"testing"
)

func TestCategories_Transfer(t *testing.T) {
	err := Transfer("test")

	if err.Code() != CodeTransfer {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeTransfer)
	}
}

func TestCategories_WrapTransfer(t *testing.T) {
	cause := errors.New("cause")
	err := WrapTransfer("test", cause)

	if err.Code() != CodeTransfer {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeTransfer)
	}
	if err.Cause() != cause {
		t.Errorf("Cause() = %v, want %v", err.Cause(), cause)
	}
}

func TestCategories_Discovery(t *testing.T) {
	err := Discovery("test")

	if err.Code() != CodeDiscovery {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeDiscovery)
	}
}

func TestCategories_WrapDiscovery(t *testing.T) {
	cause := errors.New("cause")
	err := WrapDiscovery("test", cause)

	if err.Code() != CodeDiscovery {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeDiscovery)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = %v, want %v", errors.Is(err, cause), true)
	}
}

func TestCategories_CreateByCode(t *testing.T) {
	err := CreateByCode(CodeCLI, DescCLI, "test", nil)

	if err.Code() != CodeCLI {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeCLI)
	}
}

func TestCategories_FromSentinel(t *testing.T) {
	sentinel := errors.New("sentinel")
	lookupSpec := func(err error) (code, description string) {
		return CodeCredential, DescCredential
	}
	err := FromSentinel(sentinel, lookupSpec, "test", nil)

	if err.Code() != CodeCredential {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeCredential)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is(err, sentinel) = %v, want %v", errors.Is(err, sentinel), true)
	}
}
