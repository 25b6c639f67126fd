package config

import (
	"os"
	"path/filepath"
	"testing"
)

var flagTests = []struct {
	arg    string
	expect Options
}{
	{"-m", Options{Merge: MergeAlways}},
	{"-M", Options{Merge: MergeSelective}},
	{"-ur", Options{OnlyUserValue: true, Recursive: true}},
	{"-I", Options{Info: true, FullInfo: true}},
	{"-st", Options{Info: true, SingleLog: true, TextureList: true}},
	{"-T", Options{Info: true, TextureList: true, TextureListPerLod: true}},
	{"-l", Options{Info: true, SingleLog: true, TextureList: true, SingleTextureList: true}},
}

func TestParseFlags(t *testing.T) {
	for _, test := range flagTests {
		var o Options
		if err := o.ParseFlags(test.arg); err != nil {
			t.Errorf("ParseFlags(%q) error: %v", test.arg, err)
			continue
		}
		if o != test.expect {
			t.Errorf("ParseFlags(%q)=%+v; expected %+v", test.arg, o, test.expect)
		}
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	var o Options
	if err := o.ParseFlags("-mx"); err == nil {
		t.Errorf("ParseFlags(%q) accepted unknown letter", "-mx")
	}
}

func TestShouldMerge(t *testing.T) {
	tests := []struct {
		mp   MergePolicy
		res  float32
		want bool
	}{
		{MergeNever, 1e15, false},
		{MergeAlways, 1, true},
		{MergeSelective, 999.9, false},
		{MergeSelective, 1000, true},
		{MergeSelective, 1e13, true},
	}
	for _, test := range tests {
		if got := test.mp.ShouldMerge(test.res); got != test.want {
			t.Errorf("%v.ShouldMerge(%v)=%v; expected %v", test.mp, test.res, got, test.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odol2mlod.yaml")
	data := "merge: selective\nonly_user_value: true\nrecursive: true\nencoding: Windows 1250\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	defer SetEncoding("Windows 1252")

	o, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if o.Merge != MergeSelective || !o.OnlyUserValue || !o.Recursive {
		t.Errorf("LoadFile()=%+v", o)
	}
	if GetEncoding().String() != "Windows 1250" {
		t.Errorf("encoding was not applied: %v", GetEncoding())
	}
}

func TestSetEncodingIgnoresCase(t *testing.T) {
	defer SetEncoding("Windows 1252")
	if err := SetEncoding("windows 1251"); err != nil {
		t.Fatal(err)
	}
	if GetEncoding().String() != "Windows 1251" {
		t.Errorf("GetEncoding()=%v", GetEncoding())
	}
	if err := SetEncoding("klingon"); err == nil {
		t.Errorf("unknown encoding accepted")
	}
}
