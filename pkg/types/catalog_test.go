package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialForPart(t *testing.T) {
	tests := []struct {
		part string
		want string
	}{
		{"HDF", MaterialHDF},
		{"plecy hdf", MaterialHDF},
		{"Front", MaterialFront},
		{"front słoje poziomo", MaterialFront},
		{"wieniec dolny", MaterialPlyta},
		{"boki", MaterialPlyta},
	}
	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			assert.Equal(t, tt.want, MaterialForPart(tt.part))
		})
	}
}

func TestThicknessForPart(t *testing.T) {
	tests := []struct {
		part string
		want int
	}{
		{"HDF", 3},
		{"PŁYTA 16 biała", 16},
		{"TYŁY 18", 18},
		{"boki", 18},
		{"wieniec dolny i górny", 18},
		{"półka", 18},
		{"polka", 18},
		{"front", 0},
		{"ramka alu", 0},
	}
	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			assert.Equal(t, tt.want, ThicknessForPart(tt.part))
		})
	}
}

func TestNormalizeWrapping(t *testing.T) {
	assert.Equal(t, "", NormalizeWrapping("0"))
	assert.Equal(t, "", NormalizeWrapping(" "))
	assert.Equal(t, "", NormalizeWrapping("NULL"))
	assert.Equal(t, "DKK", NormalizeWrapping(" DKK "))
}

func TestCabinetPartApplyDefaults(t *testing.T) {
	p := &CabinetPart{PartName: " hdf ", Wrapping: "0"}
	p.ApplyDefaults()

	assert.Equal(t, "hdf", p.PartName)
	assert.Equal(t, MaterialHDF, p.Material)
	assert.Equal(t, 3, p.ThicknessMM)
	assert.Empty(t, p.Wrapping)
	assert.Equal(t, 0, p.Pieces)

	explicit := &CabinetPart{PartName: "boki", Material: MaterialFront, ThicknessMM: 16}
	explicit.ApplyDefaults()
	assert.Equal(t, MaterialFront, explicit.Material)
	assert.Equal(t, 16, explicit.ThicknessMM)
}

func TestCabinetPartValidate(t *testing.T) {
	assert.ErrorIs(t, (&CabinetPart{Material: MaterialPlyta}).Validate(), ErrEmptyName)
	assert.ErrorIs(t, (&CabinetPart{PartName: "x", Material: "WOOD"}).Validate(), ErrInvalidMaterial)
	assert.ErrorIs(t, (&CabinetPart{PartName: "x", Material: MaterialPlyta, HeightMM: -1}).Validate(), ErrInvalidDimension)
	assert.NoError(t, (&CabinetPart{PartName: "x", Material: MaterialPlyta, HeightMM: 720, WidthMM: 560, Pieces: 2}).Validate())
}
