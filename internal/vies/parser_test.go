package vies

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bratislavaRuzinov = "Bratislava - mestská časť Ružinov"

func zip(s string) *string { return &s }

func TestParse_Strategies(t *testing.T) {
	tests := []struct {
		name    string
		vat     string
		address string
		flags   []string
		want    Address
	}{
		{
			name:    "NL two lines",
			vat:     "NL123456789B01",
			address: "Damrak 1\n1012LG AMSTERDAM",
			want:    Address{Street: "Damrak 1", Zip: zip("1012LG"), City: "AMSTERDAM", CountryCode: "NL"},
		},
		{
			name:    "BE two lines",
			vat:     "BE0123456789",
			address: "Rue de la Loi 16\n1000 Bruxelles",
			want:    Address{Street: "Rue de la Loi 16", Zip: zip("1000"), City: "Bruxelles", CountryCode: "BE"},
		},
		{
			name:    "FR two lines",
			vat:     "FR40303265045",
			address: "10 RUE DE RIVOLI\n75001 PARIS",
			want:    Address{Street: "10 RUE DE RIVOLI", Zip: zip("75001"), City: "PARIS", CountryCode: "FR"},
		},
		{
			name:    "FI two lines",
			vat:     "FI20774740",
			address: "Karaportti 1\n02610 ESPOO",
			want:    Address{Street: "Karaportti 1", Zip: zip("02610"), City: "ESPOO", CountryCode: "FI"},
		},
		{
			name:    "AT two lines",
			vat:     "ATU12345678",
			address: "Stephansplatz 1\n1010 Wien",
			want:    Address{Street: "Stephansplatz 1", Zip: zip("1010"), City: "Wien", CountryCode: "AT"},
		},
		{
			name:    "PL two lines",
			vat:     "PL5260250274",
			address: "ul. Marszałkowska 1\n00-026 Warszawa",
			want:    Address{Street: "ul. Marszałkowska 1", Zip: zip("00-026"), City: "Warszawa", CountryCode: "PL"},
		},
		{
			name:    "DK two lines",
			vat:     "DK13585628",
			address: "Rådhuspladsen 1\n1550 København V",
			want:    Address{Street: "Rådhuspladsen 1", Zip: zip("1550"), City: "København V", CountryCode: "DK"},
		},
		{
			name:    "IT two lines",
			vat:     "IT00743110157",
			address: "VIA ROMA 1 \n20121 MILANO MI ",
			want:    Address{Street: "VIA ROMA 1", Zip: zip("20121"), City: "MILANO MI", CountryCode: "IT"},
		},
		{
			name:    "SI three comma parts",
			vat:     "SI12345678",
			address: "Slovenska cesta 1, Center, 1000 Ljubljana",
			want:    Address{Street: "Slovenska cesta 1, Center", Zip: zip("1000"), City: "Ljubljana", CountryCode: "SI"},
		},
		{
			name:    "HR two comma parts",
			vat:     "HR12345678901",
			address: "Ilica 1, 10000 Zagreb",
			want:    Address{Street: "Ilica 1", Zip: zip("10000"), City: "Zagreb", CountryCode: "HR"},
		},
		{
			name:    "HR four comma parts keeps only the first as street",
			vat:     "HR12345678901",
			address: "Ilica 1, Gornji grad, Centar, 10000 Zagreb",
			want:    Address{Street: "Ilica 1", Zip: zip("10000"), City: "Zagreb", CountryCode: "HR"},
		},
		{
			name:    "PT three lines",
			vat:     "PT501964843",
			address: "RUA AUGUSTA 1\nLISBOA\n1100-048 LISBOA",
			want:    Address{Street: "RUA AUGUSTA 1", Zip: zip("1100-048"), City: "LISBOA", CountryCode: "PT"},
		},
		{
			name:    "FR three lines",
			vat:     "FR40303265045",
			address: "ZONE ARTISANALE\n2 RUE DES ARTISANS\n69100 VILLEURBANNE",
			want:    Address{Street: "ZONE ARTISANALE, 2 RUE DES ARTISANS", Zip: zip("69100"), City: "VILLEURBANNE", CountryCode: "FR"},
		},
		{
			name:    "SK three lines",
			vat:     "SK2020317068",
			address: "Mlynské nivy 1\n82109 Bratislava\nSlovensko",
			want:    Address{Street: "Mlynské nivy 1", Zip: zip("82109"), City: "Bratislava", CountryCode: "SK"},
		},
		{
			name:    "SK two lines",
			vat:     "SK2020317068",
			address: "Hlavná 1\n04001 Košice",
			want:    Address{Street: "Hlavná 1", Zip: zip("04001"), City: "Košice", CountryCode: "SK"},
		},
		{
			name:    "SK two lines without street",
			vat:     "SK2020317068",
			address: "90101 Malacky\nSlovensko",
			want:    Address{Street: "", Zip: zip("90101"), City: "Malacky", CountryCode: "SK"},
		},
		{
			name:    "EE double space",
			vat:     "EE100247019",
			address: "Narva mnt 5  10117 Tallinn",
			want:    Address{Street: "Narva mnt 5", Zip: zip("10117"), City: "Tallinn", CountryCode: "EE"},
		},
		{
			name:    "EE longer separator collapses",
			vat:     "EE100247019",
			address: "Narva mnt 5     10117 Tallinn",
			want:    Address{Street: "Narva mnt 5", Zip: zip("10117"), City: "Tallinn", CountryCode: "EE"},
		},
		{
			name:    "EE without third segment",
			vat:     "EE100247019",
			address: "Tähe  51",
			want:    Address{Street: "Tähe", Zip: zip("51"), City: "", CountryCode: "EE"},
		},
		{
			name:    "CZ two lines",
			vat:     "CZ00006947",
			address: "Letenská 525/15\n110 00 Praha 1",
			want:    Address{Street: "Letenská 525/15", Zip: zip("110 00"), City: "Praha 1", CountryCode: "CZ"},
		},
		{
			name:    "CZ three lines",
			vat:     "CZ00006947",
			address: "Letenská 525/15\nMalá Strana\n118 00 Praha 1",
			want:    Address{Street: "Letenská 525/15, Malá Strana", Zip: zip("118 00"), City: "Praha 1", CountryCode: "CZ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.vat, tt.address, tt.flags...)
			require.NoError(t, err)

			tt.want.Address = strings.TrimSpace(tt.address)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_FieldsAreTrimmed(t *testing.T) {
	got, err := Parse("  NL123456789B01 ", "  Damrak 1   \n   1012LG   AMSTERDAM  ")
	require.NoError(t, err)

	assert.Equal(t, "Damrak 1", got.Street)
	require.NotNil(t, got.Zip)
	assert.Equal(t, "1012LG", *got.Zip)
	assert.Equal(t, "AMSTERDAM", got.City)
	assert.Equal(t, "NL", got.CountryCode)
	assert.Equal(t, "Damrak 1   \n   1012LG   AMSTERDAM", got.Address)
}

func TestParse_Romania(t *testing.T) {
	t.Run("two lines", func(t *testing.T) {
		got, err := Parse("RO18547290", "MUN. BUCUREŞTI\nSTR. DOAMNEI NR. 12")
		require.NoError(t, err)

		assert.Equal(t, "MUN. BUCUREŞTI", got.City)
		assert.Equal(t, "STR. DOAMNEI NR. 12", got.Street)
		assert.Nil(t, got.Zip)
		assert.Equal(t, "RO", got.CountryCode)
	})

	t.Run("three lines", func(t *testing.T) {
		got, err := Parse("RO18547290", "MUN. CLUJ-NAPOCA\nSTR. MEMORANDUMULUI NR. 28\nAP. 4")
		require.NoError(t, err)

		assert.Equal(t, "MUN. CLUJ-NAPOCA", got.City)
		assert.Equal(t, "AP. 4, STR. MEMORANDUMULUI NR. 28", got.Street)
		assert.Nil(t, got.Zip)
	})
}

func TestParse_SlovakMunicipalDistrict(t *testing.T) {
	address := "Mlynské nivy 1\n82109 " + bratislavaRuzinov + "\nSlovensko"

	t.Run("prefix kept without flag", func(t *testing.T) {
		got, err := Parse("SK2020317068", address)
		require.NoError(t, err)
		assert.Equal(t, bratislavaRuzinov, got.City)
	})

	t.Run("prefix stripped with flag", func(t *testing.T) {
		got, err := Parse("SK2020317068", address, FlagSKDeleteMC)
		require.NoError(t, err)
		assert.Equal(t, "Bratislava - Ružinov", got.City)
	})

	t.Run("abbreviated prefix stripped on two lines", func(t *testing.T) {
		got, err := Parse("SK2020317068", "Hlavná 1\n04001 Košice - m. č. Staré Mesto", FlagSKDeleteMC)
		require.NoError(t, err)
		assert.Equal(t, "Košice - Staré Mesto", got.City)
	})

	t.Run("unknown flags ignored", func(t *testing.T) {
		got, err := Parse("SK2020317068", address, "no_such_flag")
		require.NoError(t, err)
		assert.Equal(t, bratislavaRuzinov, got.City)
	})
}

func TestParse_Greek(t *testing.T) {
	got, err := Parse("EL094014201", "Λεωφόρος Κηφισίας 100 - Αθήνα")
	require.NoError(t, err)

	assert.Equal(t, "leoforos kifisias 100 - athina", got.Address)
	assert.Equal(t, "leoforos", got.Street)
	require.NotNil(t, got.Zip)
	assert.Equal(t, "kifisias 100", *got.Zip)
	assert.Equal(t, "athina", got.City)
	assert.Equal(t, "EL", got.CountryCode)
}

func TestParse_GreekWithoutSeparator(t *testing.T) {
	_, err := Parse("EL094014201", "Λεωφόρος Κηφισίας 100 Αθήνα")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestParse_NotSupported(t *testing.T) {
	for _, vat := range []string{"DE123456789", "ES12345678Z", "IE6388047V", "XX1", "", "S", "sk2020317068"} {
		t.Run(vat, func(t *testing.T) {
			_, err := Parse(vat, "Damrak 1\n1012LG AMSTERDAM")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotSupported)
			assert.ErrorIs(t, err, ErrUnparseable)
			assert.Equal(t, "not_supported", Reason(err))
		})
	}
}

func TestParse_UnrecognizedFormat(t *testing.T) {
	tests := []struct {
		name    string
		vat     string
		address string
	}{
		{name: "NL three lines", vat: "NL123456789B01", address: "a\nb\n1012LG AMSTERDAM"},
		{name: "NL single line", vat: "NL123456789B01", address: "Damrak 1, 1012LG AMSTERDAM"},
		{name: "EE without double space", vat: "EE100247019", address: "Narva mnt 5 10117 Tallinn"},
		{name: "RO single line", vat: "RO18547290", address: "MUN. BUCUREŞTI"},
		{name: "IT three lines", vat: "IT00743110157", address: "a\nb\n20121 MILANO"},
		{name: "CZ single line", vat: "CZ00006947", address: "Letenská 525/15, 110 00 Praha 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.vat, tt.address)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnrecognizedFormat)
			assert.Equal(t, "unrecognized_format", Reason(err))
		})
	}
}

func TestParse_CzechMalformedZip(t *testing.T) {
	for _, address := range []string{"Letenská 525/15\n11000 Praha", "Letenská 525/15\nMalá Strana\n11000"} {
		_, err := Parse("CZ00006947", address)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedZip)
		assert.Equal(t, "malformed_zip", Reason(err))
	}
}

func TestParse_Deterministic(t *testing.T) {
	inputs := [][2]string{
		{"SK2020317068", "Mlynské nivy 1\n82109 Bratislava\nSlovensko"},
		{"EL094014201", "Λεωφόρος Κηφισίας 100 - Αθήνα"},
		{"RO18547290", "MUN. BUCUREŞTI\nSTR. DOAMNEI NR. 12"},
	}
	for _, in := range inputs {
		first, err1 := Parse(in[0], in[1])
		second, err2 := Parse(in[0], in[1])
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
	}
}

func TestSupportedCountries(t *testing.T) {
	want := []string{"SK", "NL", "BE", "FR", "PT", "IT", "FI", "RO", "SI", "AT", "PL", "HR", "EL", "DK", "EE", "CZ"}
	assert.Equal(t, want, SupportedCountries())

	// callers get a copy
	got := SupportedCountries()
	got[0] = "DE"
	assert.Equal(t, "SK", SupportedCountries()[0])
	assert.False(t, IsSupported("DE"))
	assert.True(t, IsSupported("EL"))
}

func TestReason_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", Reason(errors.New("boom")))
}

func TestRecognizedFlags(t *testing.T) {
	flags := RecognizedFlags()
	assert.Contains(t, flags, FlagSKDeleteMC)
	assert.Contains(t, flags, FlagELFirstMatchOnly)

	delete(flags, FlagSKDeleteMC)
	assert.Contains(t, RecognizedFlags(), FlagSKDeleteMC)
}
