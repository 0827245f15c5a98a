package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennycoder/gerb2img/gerber"
)

func TestLoadJSONDefaultsScale(t *testing.T) {
	r := strings.NewReader(`{"imageDPI":1000,"inputs":["a.gbr"]}`)
	c, err := LoadJSON(r)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.ScaleX)
	assert.Equal(t, 1.0, c.ScaleY)
}

func TestLoadJSONRejectsZeroDPI(t *testing.T) {
	r := strings.NewReader(`{"imageDPI":0,"inputs":["a.gbr"]}`)
	_, err := LoadJSON(r)
	assert.Error(t, err)
}

func TestLoadJSONRequiresInputs(t *testing.T) {
	r := strings.NewReader(`{"imageDPI":1000}`)
	_, err := LoadJSON(r)
	assert.Error(t, err)
}

func TestLoadJSONRejectsMalformed(t *testing.T) {
	r := strings.NewReader(`{not json`)
	_, err := LoadJSON(r)
	assert.Error(t, err)
}

func TestExitCodeForMapsEmptyImage(t *testing.T) {
	assert.Equal(t, ErrorNoImage, ExitCodeFor(gerber.KindEmptyImage))
}

func TestExitCodeForMapsParseFaults(t *testing.T) {
	assert.Equal(t, ErrorGerberProcessing, ExitCodeFor(gerber.KindBadFormatSpec))
	assert.Equal(t, ErrorGerberProcessing, ExitCodeFor(gerber.KindUnknownAperture))
}

func TestExitCodeForNone(t *testing.T) {
	assert.Equal(t, NoError, ExitCodeFor(gerber.KindNone))
}
