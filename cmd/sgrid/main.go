/*
Copyright © 2026 the sgrid authors.
This file is part of sgrid.

sgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

sgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with sgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command sgrid converts airborne EM line data files to GOCAD SGrids.
package main

import (
	"fmt"
	"os"

	"github.com/gaaem/sgrid/sgridutil"
)

func main() {
	if err := sgridutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
