package source

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		clip string
		want Match
	}{
		{
			name: "imago short prefix",
			clip: "IMG_12345",
			want: Match{Provider: ProviderImago, MediaID: "12345"},
		},
		{
			name: "imago full prefix with title",
			clip: "imago_98765_City_Skyline.mp4",
			want: Match{Provider: ProviderImago, MediaID: "98765", Title: "City Skyline"},
		},
		{
			name: "colourbox",
			clip: "COLOURBOX54321.mp4",
			want: Match{Provider: ProviderColourbox, MediaID: "54321"},
		},
		{
			name: "colourbox with title",
			clip: "colourbox_11111_Ocean_Waves.mov",
			want: Match{Provider: ProviderColourbox, MediaID: "11111", Title: "Ocean Waves"},
		},
		{
			name: "artlist by convention",
			clip: "123456_Sunset_Drive_by_Jane_Doe_Artlist_HD.mp4",
			want: Match{Provider: ProviderArtlist, MediaID: "123456", Title: "Sunset Drive"},
		},
		{
			name: "artlist from convention",
			clip: "777_Night_City_from_Some_Artist_artlist.mov",
			want: Match{Provider: ProviderArtlist, MediaID: "777", Title: "Night City"},
		},
		{
			name: "artlist stockclip convention",
			clip: "stockclip_67890_SunsetOverCity",
			want: Match{Provider: ProviderArtlist, MediaID: "67890", Title: "SunsetOverCity"},
		},
		{
			name: "no provider",
			clip: "myFootage",
			want: Match{},
		},
		{
			name: "empty name",
			clip: "",
			want: Match{},
		},
		{
			name: "numbers alone do not match",
			clip: "20240101_interview_take2",
			want: Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.clip)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.clip, got, tt.want)
			}
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	// A name matching both Imago and Colourbox resolves to Imago, which is
	// registered first.
	got := Resolve("imago_111_colourbox_222")
	if got.Provider != ProviderImago {
		t.Errorf("Provider = %q, want %q", got.Provider, ProviderImago)
	}
	if got.MediaID != "111" {
		t.Errorf("MediaID = %q, want %q", got.MediaID, "111")
	}
}
