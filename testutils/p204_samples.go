package testutils

import "github.com/phpguard/phpguard"

// SampleCodeP204 - Command injection
var SampleCodeP204 = []CodeSample{
	{`<?php
system("ls " . $dir);
`, 1, phpguard.NewConfig()},
	{`<?php
$output = shell_exec("ping -c 1 " . $_GET['host']);
`, 1, phpguard.NewConfig()},
	{"<?php\n$files = `ls $dir`;\n", 1, phpguard.NewConfig()},
	{`<?php
// Safe - constant commands
system("ls -la");
exec('whoami');
`, 0, phpguard.NewConfig()},
	{`<?php
passthru("cat " . $file);
exec("rm " . $path);
`, 2, phpguard.NewConfig()},
	{`<?php
system("ls $dir");
`, 1, phpguard.NewConfig()},
	{`<?php
$handle = popen("tail -f " . $_POST['log'], "r");
`, 1, phpguard.NewConfig()},
}
