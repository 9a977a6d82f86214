package main

import (
	"os"
	"testing"

	"github.com/elijahnyp/casa_controller/util"
)

func TestMain(m *testing.M) {
	util.LogInit("error")
	util.SetupConfig()
	os.Exit(m.Run())
}
