package cubeview

import "testing"

func TestShared_ReturnsSameInstance(t *testing.T) {
	defer ReleaseShared()

	a := Shared(WithBackendName("software"))
	b := Shared()
	if a != b {
		t.Fatal("Shared returned different instances")
	}
}

func TestReleaseShared_DisposesAndResets(t *testing.T) {
	a := Shared(WithBackendName("software"))
	ReleaseShared()
	if a.State() != StateDisposed {
		t.Fatalf("released instance state = %v, want disposed", a.State())
	}

	b := Shared(WithBackendName("software"))
	defer ReleaseShared()
	if b == a {
		t.Fatal("Shared returned the disposed instance after release")
	}
	if b.State() != StateUninitialized {
		t.Fatalf("fresh shared instance state = %v", b.State())
	}
}

func TestReleaseShared_NoInstance(t *testing.T) {
	ReleaseShared()
	ReleaseShared()
}
