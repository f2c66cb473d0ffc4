package source

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/klauspost/compress/zstd"
	common "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/common"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/geometry"
	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/storage"
)

const framesCSV = `round_num,tick,seconds,team,side,player,x,y,z,area_name,is_alive,inventory
1,100,1.5,Team2,T,alice,-2200,700,300,BombsiteB,True,"[{""weapon_name"":""AK-47"",""weapon_class"":""Rifle""},{""weapon_name"":""Flashbang"",""weapon_class"":""Grenade""}]"
1,116,,Team1,CT,bob,10.5,-3,0,,False,Knife|USP-S
`

func TestReadCSV(t *testing.T) {
	recs, err := ReadCSV(context.Background(), strings.NewReader(framesCSV), Columns{})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	a := recs[0]
	assert.Equal(t, 1, a.Round)
	assert.Equal(t, 100, a.Tick)
	assert.Equal(t, "Team2", a.Team)
	assert.Equal(t, model.SideT, a.Side)
	assert.Equal(t, "alice", a.Player)
	assert.Equal(t, r3.Vector{X: -2200, Y: 700, Z: 300}, a.Position)
	assert.Equal(t, "BombsiteB", a.Area)
	assert.True(t, a.Alive)
	assert.True(t, a.HasClock)
	assert.Equal(t, 1.5, a.Clock)
	assert.Equal(t, []model.Item{{Name: "AK-47", Class: "Rifle"}, {Name: "Flashbang", Class: "Grenade"}}, a.Inventory)

	b := recs[1]
	assert.Equal(t, model.SideCT, b.Side)
	assert.False(t, b.Alive)
	assert.False(t, b.HasClock)
	assert.Equal(t, []model.Item{{Name: "Knife"}, {Name: "USP-S"}}, b.Inventory)
}

func TestReadCSVCustomColumns(t *testing.T) {
	data := "rnd,t,tm,sd,who,px,py,pz\n3,64,Team2,CT,carol,1,2,3\n"
	cols := Columns{Round: "rnd", Tick: "t", Team: "tm", Side: "sd", Player: "who", X: "px", Y: "py", Z: "pz"}
	recs, err := ReadCSV(context.Background(), strings.NewReader(data), cols)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].Round)
	assert.Equal(t, "carol", recs[0].Player)
	assert.True(t, recs[0].Alive, "alive defaults to true without the column")
}

func TestReadCSVErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "round_num,tick,team,side,player,x,y\n1,2,Team2,T,a,1,2\n",
		"bad number":     "round_num,tick,team,side,player,x,y,z\n1,2,Team2,T,a,one,2,3\n",
		"bad side":       "round_num,tick,team,side,player,x,y,z\n1,2,Team2,Spectator,a,1,2,3\n",
		"bad tick":       "round_num,tick,team,side,player,x,y,z\n1,2.5,Team2,T,a,1,2,3\n",
		"ragged":         "round_num,tick,team,side,player,x,y,z\n1,2,Team2\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(context.Background(), strings.NewReader(data), Columns{})
			assert.Error(t, err)
		})
	}
}

func TestReadCSVAcceptsFloatIntegers(t *testing.T) {
	data := "round_num,tick,team,side,player,x,y,z\n2.0,128.0,Team2,t,a,1,2,3\n"
	recs, err := ReadCSV(context.Background(), strings.NewReader(data), Columns{})
	require.NoError(t, err)
	assert.Equal(t, 2, recs[0].Round)
	assert.Equal(t, 128, recs[0].Tick)
	assert.Equal(t, model.SideT, recs[0].Side)
}

func TestReadJSONLines(t *testing.T) {
	data := `{"round_num":4,"tick":640,"round_start_tick":512,"team":"Team2","side":"CT","player":"dave","pos":{"x":1,"y":2,"z":3},"is_alive":true,"inventory":["MP9","Smoke Grenade"]}

{"round_num":4,"tick":656,"team":"Team2","side":"CT","player":"erin","pos":{"x":4,"y":5,"z":6},"is_alive":false,"inventory":null,"area_name":"BombsiteB"}
`
	cols := DefaultColumns()
	cols.X, cols.Y, cols.Z = "pos.x", "pos.y", "pos.z"
	recs, err := ReadJSONLines(context.Background(), strings.NewReader(data), cols)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, r3.Vector{X: 1, Y: 2, Z: 3}, recs[0].Position)
	assert.True(t, recs[0].HasRoundStart)
	assert.Equal(t, 512, recs[0].RoundStartTick)
	assert.Equal(t, []model.Item{{Name: "MP9"}, {Name: "Smoke Grenade"}}, recs[0].Inventory)
	assert.True(t, recs[0].Alive)

	assert.False(t, recs[1].Alive)
	assert.False(t, recs[1].HasRoundStart)
	assert.Nil(t, recs[1].Inventory)
	assert.Equal(t, "BombsiteB", recs[1].Area)
}

func TestReadJSONLinesInvalid(t *testing.T) {
	_, err := ReadJSONLines(context.Background(), strings.NewReader("{not json}\n"), Columns{})
	assert.Error(t, err)
}

func TestParseInventory(t *testing.T) {
	assert.Nil(t, ParseInventory(""))
	assert.Nil(t, ParseInventory("[]"))
	assert.Equal(t, []model.Item{{Name: "AK-47"}}, ParseInventory(" AK-47 | "))
	assert.Equal(t, []model.Item{{Name: "P90", Class: "SMG"}}, ParseInventory(`[{"name":"P90","weapon_class":"SMG"}]`))
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.db")
	db, err := storage.Open(path)
	require.NoError(t, err)
	want := []model.Record{{
		Round: 2, Tick: 300, Team: "Team2", Side: model.SideT, Player: "alice",
		Position: r3.Vector{X: -2200.5, Y: 700, Z: 300}, Area: "BombsiteB", Alive: true,
		Inventory:      []model.Item{{Name: "AK-47", Class: "Rifle"}},
		RoundStartTick: 200, HasRoundStart: true,
	}}
	require.NoError(t, db.InsertFrames(want))
	require.NoError(t, db.Close())

	src, err := Open(path, Options{})
	require.NoError(t, err)
	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.db")
	db, err := storage.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src := &SQLite{Path: path, Table: "nope"}
	_, err = src.Load(context.Background())
	assert.Error(t, err)
}

func TestOpenByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "frames.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(framesCSV), 0o644))

	src, err := Open(csvPath, Options{})
	require.NoError(t, err)
	assert.IsType(t, &CSV{}, src)
	recs, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	for path, want := range map[string]any{
		"a.jsonl": &JSONLines{}, "a.NDJSON": &JSONLines{}, "a.sqlite": &SQLite{}, "a.dem": &Demo{},
	} {
		src, err := Open(path, Options{})
		require.NoError(t, err, path)
		assert.IsType(t, want, src, path)
	}

	_, err = Open("frames.xlsx", Options{})
	assert.Error(t, err)

	missing, err := Open(filepath.Join(dir, "missing.csv"), Options{})
	require.NoError(t, err)
	_, err = missing.Load(context.Background())
	assert.Error(t, err)
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader(framesCSV), Columns{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoMappings(t *testing.T) {
	assert.Equal(t, model.SideT, sideFromCommon(common.TeamTerrorists))
	assert.Equal(t, model.SideCT, sideFromCommon(common.TeamCounterTerrorists))
	assert.Equal(t, model.SideUnknown, sideFromCommon(common.TeamSpectators))
	assert.Equal(t, "Rifle", classLabel(common.EqClassRifle))
	assert.Equal(t, "SMG", classLabel(common.EqClassSMG))
	assert.Equal(t, "Equipment", classLabel(common.EqClassEquipment))
}

func TestOpenCompressed(t *testing.T) {
	dir := t.TempDir()

	zstPath := filepath.Join(dir, "frames.csv.zst")
	var zbuf bytes.Buffer
	enc, err := zstd.NewWriter(&zbuf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(framesCSV))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(zstPath, zbuf.Bytes(), 0o644))

	gzPath := filepath.Join(dir, "frames.csv.gz")
	var gbuf bytes.Buffer
	gz := gzip.NewWriter(&gbuf)
	_, err = gz.Write([]byte(framesCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(gzPath, gbuf.Bytes(), 0o644))

	for _, path := range []string{zstPath, gzPath} {
		src, err := Open(path, Options{})
		require.NoError(t, err, path)
		assert.IsType(t, &CSV{}, src, path)
		recs, err := src.Load(context.Background())
		require.NoError(t, err, path)
		assert.Len(t, recs, 2, path)
	}

	src, err := Open("match.DEM.zst", Options{})
	require.NoError(t, err)
	assert.IsType(t, &Demo{}, src)

	_, err = Open("frames.db.gz", Options{})
	assert.Error(t, err)
}

func TestOpenDefaultsReadOptionalColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.csv")
	data := "round_num,tick,seconds,team,side,player,x,y,z,area_name,is_alive,inventory\n" +
		"1,64,1.0,Team2,T,alice,-1000,500,100,BombsiteB,true,AK-47\n" +
		"1,128,2.0,Team2,T,bob,-1010,505,100,BombsiteB,true,M4A1-S|Flashbang\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	src, err := Open(path, Options{})
	require.NoError(t, err)
	region, err := geometry.NewRegion("square", []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, 0, 10)
	require.NoError(t, err)
	tbl, err := gamestate.New(context.Background(), src, region)
	require.NoError(t, err)

	res, err := tbl.TimeToEntry("Team2", model.SideT, gamestate.Place("BombsiteB"), 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Mean)
}

func TestColumnsSkipOptional(t *testing.T) {
	cols := Columns{Inventory: Skip, Clock: Skip}
	recs, err := ReadCSV(context.Background(), strings.NewReader(framesCSV), cols)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Nil(t, recs[0].Inventory)
	assert.False(t, recs[0].HasClock)
	assert.Equal(t, "BombsiteB", recs[0].Area, "unskipped optional columns still default")
}

type parquetItem struct {
	WeaponName  string `parquet:"weapon_name"`
	WeaponClass string `parquet:"weapon_class"`
}

type parquetFrame struct {
	RoundNum  int64         `parquet:"round_num"`
	Tick      int64         `parquet:"tick"`
	Seconds   float64       `parquet:"seconds"`
	Team      string        `parquet:"team"`
	Side      string        `parquet:"side"`
	Player    string        `parquet:"player"`
	X         float64       `parquet:"x"`
	Y         float64       `parquet:"y"`
	Z         float64       `parquet:"z"`
	AreaName  string        `parquet:"area_name"`
	IsAlive   bool          `parquet:"is_alive"`
	Inventory []parquetItem `parquet:"inventory,list"`
}

func TestParquetSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.parquet")
	require.NoError(t, parquet.WriteFile(path, []parquetFrame{
		{
			RoundNum: 4, Tick: 960, Seconds: 3.5, Team: "Team2", Side: "T", Player: "alice",
			X: -2200, Y: 700.25, Z: 300, AreaName: "BombsiteB", IsAlive: true,
			Inventory: []parquetItem{{"AK-47", "Rifle"}, {"Flashbang", "Grenade"}},
		},
		{
			RoundNum: 4, Tick: 976, Seconds: 3.75, Team: "Team1", Side: "CT", Player: "bob",
			X: 10, Y: -3, Z: 0, IsAlive: false,
		},
	}))

	src, err := Open(path, Options{})
	require.NoError(t, err)
	require.IsType(t, &Parquet{}, src)
	recs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	a := recs[0]
	assert.Equal(t, 4, a.Round)
	assert.Equal(t, 960, a.Tick)
	assert.Equal(t, model.SideT, a.Side)
	assert.Equal(t, r3.Vector{X: -2200, Y: 700.25, Z: 300}, a.Position)
	assert.Equal(t, "BombsiteB", a.Area)
	assert.True(t, a.HasClock)
	assert.Equal(t, 3.5, a.Clock)
	assert.Equal(t, []model.Item{{Name: "AK-47", Class: "Rifle"}, {Name: "Flashbang", Class: "Grenade"}}, a.Inventory)

	b := recs[1]
	assert.Equal(t, "bob", b.Player)
	assert.False(t, b.Alive)
	assert.Empty(t, b.Inventory)
}

func TestParquetMissingColumn(t *testing.T) {
	type partial struct {
		RoundNum int64  `parquet:"round_num"`
		Player   string `parquet:"player"`
	}
	path := filepath.Join(t.TempDir(), "partial.parquet")
	require.NoError(t, parquet.WriteFile(path, []partial{{RoundNum: 1, Player: "alice"}}))

	_, err := (&Parquet{Path: path}).Load(context.Background())
	assert.ErrorContains(t, err, "missing column")
}
