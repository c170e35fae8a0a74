package catalog

import "testing"

func TestResolveByID(t *testing.T) {
	svc, ok := Default.Resolve("solar-installation")
	if !ok {
		t.Fatal("expected match by identifier")
	}
	if svc.Title != "Solar Installation" {
		t.Errorf("expected title Solar Installation, got %s", svc.Title)
	}
}

func TestResolveByTitle(t *testing.T) {
	svc, ok := Default.Resolve("Solar Installation")
	if !ok {
		t.Fatal("expected match by title")
	}
	if svc.ID != "solar-installation" {
		t.Errorf("expected id solar-installation, got %s", svc.ID)
	}
}

func TestResolveTitleCaseInsensitive(t *testing.T) {
	svc, ok := Default.Resolve("  solar installation ")
	if !ok {
		t.Fatal("expected case-insensitive title match")
	}
	if svc.Title != "Solar Installation" {
		t.Errorf("got %s", svc.Title)
	}
}

func TestResolveUnmatched(t *testing.T) {
	if _, ok := Default.Resolve("underwater basket weaving"); ok {
		t.Error("expected no match for unknown service")
	}
	if _, ok := Default.Resolve(""); ok {
		t.Error("expected no match for empty input")
	}
}

func TestServicesOrderAndCopy(t *testing.T) {
	services := Default.Services()
	if len(services) == 0 {
		t.Fatal("expected non-empty catalog")
	}
	if services[0].ID != "solar-installation" {
		t.Errorf("expected solar-installation first, got %s", services[0].ID)
	}

	services[0].Title = "mutated"
	if Default.Services()[0].Title == "mutated" {
		t.Error("Services() must return a copy")
	}
}
