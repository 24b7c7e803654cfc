/*

Process of compilation

Program Text ->
	scan ->
Raw Instructions (ir) ->
	fuse ->
	resolve jumps ->
Intermediate Representation (ir) ->
	vm.Run ->
Program Output

Intermediate Representation (ir) ->
	back.Compile ->
QBE Text ->
	qbe, cc ->
Binary Executable

*/
package compiler
