/*
Package config loads the optional prettysvg rules file.

	            +-------------+
	            |   Config    |
	            | (Overrides) |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |
	+-----+-----+ +---+----+ +----+----+
	|   YAML    | |  JSON  | |   HCL   |
	| Parser    | | Parser | | Parser  |
	+-----------+ +--------+ +---------+

🎯 Purpose:
- Override the sentinel texts and the tags they become
- Choose what happens to runs of more than four open sentinels
- Add literal replacements that run after the sentinel rewrite

Every field is optional. An empty file, or no file at all, gives the
WebGraphviz defaults (&zwj; / &zwnj; and tspan styling tags).

🔍 Example (HCL):

	long_runs = "reject"

	tags {
	  bold = "<tspan font-weight=\"700\">"
	}

	replacement {
	  old  = "Times,serif"
	  new  = "Helvetica,sans-serif"
	  file = "*.svg"
	}
*/
package config
