package startup

import "os/exec"

// lookPath is exec.LookPath, replaceable in tests.
var lookPath = exec.LookPath
