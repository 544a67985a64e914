package testutils

import "github.com/phpguard/phpguard"

// SampleCodeP203 - Cross-site scripting
var SampleCodeP203 = []CodeSample{
	{`<?php
echo "<b>" . $name . "</b>";
`, 1, phpguard.NewConfig()},
	{`<?php
echo htmlspecialchars($name);
`, 0, phpguard.NewConfig()},
	{`<?php
$safeInput = strip_tags($_GET['input']);
echo $safeInput;
`, 0, phpguard.NewConfig()},
	{`<?php
print $_GET['q'];
`, 1, phpguard.NewConfig()},
	{`<?php
include $page;
`, 1, phpguard.NewConfig()},
	{`<?php
echo $_GET['a'];
print "Hello " . $user;
echo "<p>" . $comment . "</p>";
`, 3, phpguard.NewConfig()},
	{`<?php
// Safe - constant output
echo "Welcome";
`, 0, phpguard.NewConfig()},
	{`<?php
$name = $_GET['n'];
echo "Hello $name";
`, 1, phpguard.NewConfig()},
	{`<?php
$page = htmlentities($_GET['page']);
include $page;
`, 1, phpguard.NewConfig()},
	{`<ul>
<?php foreach ($items as $item): ?>
  <li><?= $item ?></li>
<?php endforeach; ?>
</ul>
`, 1, phpguard.NewConfig()},
	{`<p><?= htmlspecialchars($_GET['q']) ?></p>
`, 0, phpguard.NewConfig()},
}
