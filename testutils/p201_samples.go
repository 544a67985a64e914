package testutils

import "github.com/phpguard/phpguard"

// SampleCodeP201 - SQL injection
var SampleCodeP201 = []CodeSample{
	{`<?php
$username = $_POST['username'];
$query = "SELECT * FROM users WHERE username = '" . $username . "'";
$db->query($query);
`, 1, phpguard.NewConfig()},
	{`<?php
$q = "SELECT * FROM t WHERE id=" . $_GET['id'];
$db->query($q);
`, 1, phpguard.NewConfig()},
	{`<?php
$id = $_GET['id'];
$db->query("SELECT * FROM users WHERE id = " . $id);
$result = mysqli_query($conn, "DELETE FROM users WHERE id = " . $id);
`, 2, phpguard.NewConfig()},
	{`<?php
// Safe - placeholders, no concatenation
$stmt = $db->prepare("SELECT * FROM t WHERE id=?");
$db->execute([$id]);
`, 0, phpguard.NewConfig()},
	{`<?php
mysql_query("SELECT * FROM t WHERE name = '" . $name . "'");
`, 1, phpguard.NewConfig()},
	{`<?php
$rows = pg_query($conn, "SELECT * FROM t WHERE name = '" . $_GET['name'] . "'");
`, 1, phpguard.NewConfig()},
	{`<?php
// Safe - no user input
$db->query("SELECT * FROM users");
`, 0, phpguard.NewConfig()},
	{`<?php
// The query is the second argument of mysqli_query
mysqli_query("SELECT * FROM t WHERE id = " . $id);
`, 0, phpguard.NewConfig()},
	{`<?php
$sql = "SELECT * FROM posts";
$sql .= " WHERE author = '" . $_COOKIE['author'] . "'";
$sql .= " ORDER BY id";
$pdo->exec($sql);
`, 1, phpguard.NewConfig()},
}
