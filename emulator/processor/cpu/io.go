/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package cpu

// IN/OUT with an immediate port (0xE4-0xE7) or the port in DX (0xEC-0xEF).
// Word transfers access port and port+1, low byte first.
func (p *CPU) opInOut() {
	var port uint16
	if p.opcode < 0xE8 {
		port = uint16(p.readOpcodeStream())
	} else {
		port = p.DX()
	}

	switch p.opcode & 3 {
	case 0: // IN AL
		p.SetAL(p.gateway.ReadPort(port))
	case 1: // IN AX
		p.SetAX(p.readPort16(port))
	case 2: // OUT AL
		p.gateway.WritePort(port, p.AL())
	case 3: // OUT AX
		p.writePort16(port, p.AX())
	}
}
