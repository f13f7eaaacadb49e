package areas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"observation-processor/internal/model"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultSpecialRules()
	kalmar := &model.Area{ID: CountyIDKalmar}

	assert.Equal(t, CountyPartIDOland, r.CountyPart(kalmar, &model.Area{ID: ProvinceIDOland}).ID)
	assert.Equal(t, CountyPartIDKalmarMain, r.CountyPart(kalmar, &model.Area{ID: "4"}).ID)
	assert.Equal(t, CountyPartIDKalmarMain, r.CountyPart(kalmar, nil).ID)
	assert.Equal(t, &model.Area{ID: "1", Name: "Stockholm"}, r.CountyPart(&model.Area{ID: "1", Name: "Stockholm"}, nil))
	assert.Nil(t, r.CountyPart(nil, &model.Area{ID: ProvinceIDOland}))

	for _, id := range LappmarkProvinceIDs {
		assert.Equal(t, ProvincePartIDLappland, r.ProvincePart(&model.Area{ID: id}).ID, id)
	}
	assert.Equal(t, "24", r.ProvincePart(&model.Area{ID: "24"}).ID)
	assert.Nil(t, r.ProvincePart(nil))
}

func TestLoadSpecialRules(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	body := `county_splits:
  - county: "3"
    parts:
      - province: "14"
        part: {id: "300", name: "Uppland del"}
    otherwise: {id: "301", name: "Övriga"}
province_merges:
  - provinces: ["17", "18"]
    into: {id: "200", name: "Norrland syd"}
`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))

	r, err := LoadSpecialRules(file)
	require.NoError(t, err)

	assert.Equal(t, "300", r.CountyPart(&model.Area{ID: "3"}, &model.Area{ID: "14"}).ID)
	assert.Equal(t, "Övriga", r.CountyPart(&model.Area{ID: "3"}, &model.Area{ID: "1"}).Name)
	assert.Equal(t, "200", r.ProvincePart(&model.Area{ID: "18"}).ID)
	// 文件规则替换默认规则
	assert.Equal(t, CountyIDKalmar, r.CountyPart(&model.Area{ID: CountyIDKalmar}, nil).ID)
}

func TestLoadSpecialRulesRejectsInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(file, []byte("county_splits:\n  - county: \"3\"\n"), 0o644))

	_, err := LoadSpecialRules(file)
	assert.ErrorContains(t, err, "otherwise.id")

	_, err = LoadSpecialRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExampleRulesFileMatchesDefaults(t *testing.T) {
	r, err := LoadSpecialRules(filepath.Join("..", "..", "configs", "area-rules.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSpecialRules(), r)
}
