package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/kepler/internal/kepler"
	"github.com/san-kum/kepler/internal/vec"
	"gopkg.in/yaml.v3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	settingsSuffix = "_settings.yaml"
	starsSuffix    = "_stars.csv"
)

var ErrBadStars = errors.New("storage: malformed stars file")

// Store writes initial-condition directories under a base directory. Each
// run gets its own directory holding <id>_settings.yaml and <id>_stars.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Settings is the YAML record describing one IC. The catalog reads these
// files back through dotted paths such as physical.binsys.e.
type Settings struct {
	ID        string    `yaml:"id" json:"id"`
	Created   time.Time `yaml:"created" json:"created"`
	Filenames Filenames `yaml:"filenames" json:"filenames"`
	Physical  Physical  `yaml:"physical" json:"physical"`
}

type Filenames struct {
	ICFileName string `yaml:"ic_file_name" json:"ic_file_name"`
}

type Physical struct {
	M        float64 `yaml:"M" json:"M"`
	StarMode string  `yaml:"star_mode" json:"star_mode"`
	Binsys   Binsys  `yaml:"binsys" json:"binsys"`
}

// Binsys is the binary's elements together with the physical-frame state
// in simulation units.
type Binsys struct {
	kepler.Binary `yaml:",inline"`

	Period   float64    `yaml:"period" json:"period"`
	MeanAnom float64    `yaml:"mean_anomaly" json:"mean_anomaly"`
	X1       [3]float64 `yaml:"x1" json:"x1"`
	X2       [3]float64 `yaml:"x2" json:"x2"`
	V1       [3]float64 `yaml:"v1" json:"v1"`
	V2       [3]float64 `yaml:"v2" json:"v2"`
}

// Save initialises the binary and writes its settings and star state.
// It returns the run ID.
func (s *Store) Save(name, starMode string, b *kepler.Binary) (string, error) {
	state, err := b.State()
	if err != nil {
		return "", err
	}

	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	settings := Settings{
		ID:        runID,
		Created:   time.Now().UTC(),
		Filenames: Filenames{ICFileName: runID + starsSuffix},
		Physical: Physical{
			M:        b.M1 + b.M2,
			StarMode: starMode,
			Binsys: Binsys{
				Binary:   *b,
				Period:   b.Period(),
				MeanAnom: b.Elements().MeanAnom,
				X1:       toArray(state.X1[0]),
				X2:       toArray(state.X2[0]),
				V1:       toArray(state.V1[0]),
				V2:       toArray(state.V2[0]),
			},
		},
	}

	data, err := yaml.Marshal(&settings)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, runID+settingsSuffix), data, 0644); err != nil {
		return "", err
	}

	if err := writeStars(filepath.Join(runDir, settings.Filenames.ICFileName), state); err != nil {
		return "", err
	}
	return runID, nil
}

func writeStars(path string, p kepler.Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"body", "m", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
		return err
	}

	rows := []struct {
		m    float64
		x, v r3.Vec
	}{
		{p.M1[0], p.X1[0], p.V1[0]},
		{p.M2[0], p.X2[0], p.V2[0]},
	}
	for i, r := range rows {
		record := []string{strconv.Itoa(i + 1), formatFloat(r.m)}
		for _, val := range []float64{r.x.X, r.x.Y, r.x.Z, r.v.X, r.v.Y, r.v.Z} {
			record = append(record, formatFloat(val))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func (s *Store) List() ([]Settings, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Settings{}, nil
		}
		return nil, err
	}

	runs := make([]Settings, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		settings, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *settings)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*Settings, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, runID+settingsSuffix))
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// LoadStars reads the star file of a run back into a single-row pair in
// simulation units.
func (s *Store) LoadStars(runID string) (kepler.Pair, error) {
	settings, err := s.Load(runID)
	if err != nil {
		return kepler.Pair{}, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, settings.Filenames.ICFileName))
	if err != nil {
		return kepler.Pair{}, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return kepler.Pair{}, err
	}
	if len(records) != 3 {
		return kepler.Pair{}, fmt.Errorf("%w: %d rows", ErrBadStars, len(records))
	}

	var (
		m [2]float64
		x [2]r3.Vec
		v [2]r3.Vec
	)
	for i, record := range records[1:] {
		vals := make([]float64, 0, 7)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return kepler.Pair{}, fmt.Errorf("%w: %v", ErrBadStars, err)
			}
			vals = append(vals, val)
		}
		if len(vals) != 7 {
			return kepler.Pair{}, fmt.Errorf("%w: %d columns", ErrBadStars, len(record))
		}
		m[i] = vals[0]
		x[i] = r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]}
		v[i] = r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]}
	}

	return kepler.Pair{
		X1: vec.Batch{x[0]}, X2: vec.Batch{x[1]},
		V1: vec.Batch{v[0]}, V2: vec.Batch{v[1]},
		M1: []float64{m[0]}, M2: []float64{m[1]},
	}, nil
}

func toArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
