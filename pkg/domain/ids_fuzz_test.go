package domain

import "testing"

// FuzzParseUserID checks that parsing never panics on arbitrary input and
// that anything accepted survives a round-trip through String.
func FuzzParseUserID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseUserID(input)
		if err != nil {
			return
		}
		roundTrip, err := ParseUserID(id.String())
		if err != nil {
			t.Fatalf("accepted ID failed round-trip: %v", err)
		}
		if roundTrip != id {
			t.Fatal("round-trip changed ID value")
		}
	})
}

// FuzzParseAllIDs checks the parse helpers validate identically, since they
// share the same underlying UUID parsing.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errUser := ParseUserID(input)
		_, errDoc := ParseDocumentID(input)
		_, errType := ParseDocumentTypeID(input)
		_, errCert := ParseCertificateID(input)

		accepted := errUser == nil
		if (errDoc == nil) != accepted || (errType == nil) != accepted || (errCert == nil) != accepted {
			t.Error("inconsistent validation across ID types")
		}
	})
}
