package codegen

import (
	"fmt"

	"github.com/dhamidi/sourcegen/classfile"
	"github.com/dhamidi/sourcegen/model"
)

// label is a branch target scoped to a single method's instruction
// stream. Labels are allocated lazily per branch point and never shared
// across methods.
type label int

type fixup struct {
	operandPC int
	opcodePC  int
	target    label
}

type frameSnapshot struct {
	locals []classfile.VerificationType
	stack  []classfile.VerificationType
}

type framePoint struct {
	pc   int
	snap frameSnapshot
}

// asm assembles one method body: instruction bytes, label resolution,
// operand stack simulation and stack map frame collection. Emitting an
// expression pushes exactly one value; emitting a statement nets zero —
// the simulation enforces the bookkeeping for max_stack and frames.
type asm struct {
	pool *classfile.PoolBuilder

	code      []byte
	fixups    []fixup
	marks     map[label]int
	pending   map[label]frameSnapshot
	frames    []framePoint
	nextLabel label

	stack     []classfile.VerificationType
	stackSize int
	maxStack  int

	localsFrame []classfile.VerificationType
	localSlots  int
	maxLocals   int

	alive bool
}

func newAsm(pool *classfile.PoolBuilder) *asm {
	return &asm{
		pool:    pool,
		marks:   make(map[label]int),
		pending: make(map[label]frameSnapshot),
		alive:   true,
	}
}

func (a *asm) newLabel() label {
	l := a.nextLabel
	a.nextLabel++
	return l
}

func (a *asm) pc() int { return len(a.code) }

func (a *asm) emit(bytes ...byte) {
	a.code = append(a.code, bytes...)
}

func (a *asm) emitU2(v uint16) {
	a.code = append(a.code, byte(v>>8), byte(v))
}

func width(vt classfile.VerificationType) int {
	if vt.Tag == classfile.VerificationLong || vt.Tag == classfile.VerificationDouble {
		return 2
	}
	return 1
}

func (a *asm) push(vt classfile.VerificationType) {
	a.stack = append(a.stack, vt)
	a.stackSize += width(vt)
	if a.stackSize > a.maxStack {
		a.maxStack = a.stackSize
	}
}

func (a *asm) pop() classfile.VerificationType {
	if len(a.stack) == 0 {
		return classfile.VerificationType{Tag: classfile.VerificationTop}
	}
	vt := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	a.stackSize -= width(vt)
	return vt
}

func (a *asm) snapshot() frameSnapshot {
	snap := frameSnapshot{
		locals: make([]classfile.VerificationType, len(a.localsFrame)),
		stack:  make([]classfile.VerificationType, len(a.stack)),
	}
	copy(snap.locals, a.localsFrame)
	copy(snap.stack, a.stack)
	return snap
}

func (a *asm) restore(snap frameSnapshot) {
	a.localsFrame = append(a.localsFrame[:0], snap.locals...)
	a.stack = append(a.stack[:0], snap.stack...)
	a.stackSize = 0
	for _, vt := range a.stack {
		a.stackSize += width(vt)
	}
	a.localSlots = 0
	for _, vt := range a.localsFrame {
		a.localSlots += width(vt)
	}
}

// scopeMark remembers the local-variable state at a block boundary so
// locals declared inside the block can be retired when it ends.
type scopeMark struct {
	frameLen int
	slots    int
}

func (a *asm) enterScope() scopeMark {
	return scopeMark{frameLen: len(a.localsFrame), slots: a.localSlots}
}

// exitScope retires locals declared since the matching enterScope. Frames
// recorded after this point no longer list the block's locals, and their
// slots are reused by later declarations. maxLocals keeps the high-water
// mark.
func (a *asm) exitScope(s scopeMark) {
	a.localsFrame = a.localsFrame[:s.frameLen]
	a.localSlots = s.slots
}

// recordTarget associates the current frame with a label, so the frame
// can be restored and emitted when the label is placed.
func (a *asm) recordTarget(l label) {
	if _, placed := a.marks[l]; placed {
		return
	}
	if _, ok := a.pending[l]; !ok {
		a.pending[l] = a.snapshot()
	}
}

// branch emits a conditional branch; the caller pops the operands the
// instruction consumes before calling.
func (a *asm) branch(op byte, target label) {
	opcodePC := a.pc()
	a.emit(op)
	operandPC := a.pc()
	a.emitU2(0)
	a.fixups = append(a.fixups, fixup{operandPC: operandPC, opcodePC: opcodePC, target: target})
	a.recordTarget(target)
}

// jump emits an unconditional goto; the instruction stream is dead until
// the next mark.
func (a *asm) jump(target label) {
	a.branch(classfile.OpGoto, target)
	a.alive = false
}

// mark places a label at the current pc and records its stack map frame.
// If control cannot fall through (after goto/return), the simulated state
// is restored from the frame captured at the branch site.
func (a *asm) mark(l label) {
	if !a.alive {
		snap, ok := a.pending[l]
		if !ok {
			// nothing branches here and control cannot fall through:
			// the label is unreachable, so no frame is recorded
			a.marks[l] = a.pc()
			return
		}
		a.restore(snap)
		a.alive = true
	}
	delete(a.pending, l)
	a.marks[l] = a.pc()
	a.frames = append(a.frames, framePoint{pc: a.pc(), snap: a.snapshot()})
}

func (a *asm) setDead() { a.alive = false }

// resolve patches all branch offsets. Offsets are signed 16-bit deltas
// from the opcode position.
func (a *asm) resolve() error {
	for _, f := range a.fixups {
		target, ok := a.marks[f.target]
		if !ok {
			return fmt.Errorf("unresolved branch target %d", f.target)
		}
		delta := target - f.opcodePC
		if delta > 32767 || delta < -32768 {
			return fmt.Errorf("branch offset %d exceeds 16 bits", delta)
		}
		a.code[f.operandPC] = byte(uint16(delta) >> 8)
		a.code[f.operandPC+1] = byte(uint16(delta))
	}
	return nil
}

// stackMapFrames builds the StackMapTable frame list in full_frame form,
// deduplicated by pc and with cumulative offset deltas.
func (a *asm) stackMapFrames() []classfile.StackMapFrame {
	if len(a.frames) == 0 {
		return nil
	}
	var out []classfile.StackMapFrame
	prev := -1
	lastPC := -1
	for _, fp := range a.frames {
		if fp.pc == lastPC {
			continue
		}
		delta := fp.pc - prev - 1
		if prev == -1 {
			delta = fp.pc
		}
		out = append(out, classfile.StackMapFrame{
			OffsetDelta: uint16(delta),
			Locals:      fp.snap.locals,
			Stack:       fp.snap.stack,
		})
		prev = fp.pc
		lastPC = fp.pc
	}
	return out
}

// allocLocal reserves slots for a variable and registers its frame entry.
// Returns the slot index.
func (a *asm) allocLocal(vt classfile.VerificationType) int {
	slot := a.localSlots
	a.localsFrame = append(a.localsFrame, vt)
	a.localSlots += width(vt)
	if a.localSlots > a.maxLocals {
		a.maxLocals = a.localSlots
	}
	return slot
}

// verificationTypeOf maps a model type onto its frame verification type.
func (a *asm) verificationTypeOf(t model.TypeDef) (classfile.VerificationType, error) {
	switch v := t.(type) {
	case model.PrimitiveType:
		switch v.Name {
		case "boolean", "byte", "short", "char", "int":
			return classfile.VerificationType{Tag: classfile.VerificationInteger}, nil
		case "long":
			return classfile.VerificationType{Tag: classfile.VerificationLong}, nil
		case "float":
			return classfile.VerificationType{Tag: classfile.VerificationFloat}, nil
		case "double":
			return classfile.VerificationType{Tag: classfile.VerificationDouble}, nil
		default:
			return classfile.VerificationType{}, fmt.Errorf("primitive %q has no verification type", v.Name)
		}
	default:
		internal, err := internalNameOf(t)
		if err != nil {
			return classfile.VerificationType{}, err
		}
		return classfile.VerificationType{
			Tag:       classfile.VerificationObject,
			PoolIndex: a.pool.Class(internal),
		}, nil
	}
}

// loadOpcode and storeOpcode select the local-variable instruction family
// for a type.
func loadOpcode(t model.TypeDef) byte {
	if p, ok := t.(model.PrimitiveType); ok {
		switch p.Name {
		case "long":
			return classfile.OpLload
		case "float":
			return classfile.OpFload
		case "double":
			return classfile.OpDload
		default:
			return classfile.OpIload
		}
	}
	return classfile.OpAload
}

func storeOpcode(t model.TypeDef) byte {
	if p, ok := t.(model.PrimitiveType); ok {
		switch p.Name {
		case "long":
			return classfile.OpLstore
		case "float":
			return classfile.OpFstore
		case "double":
			return classfile.OpDstore
		default:
			return classfile.OpIstore
		}
	}
	return classfile.OpAstore
}

func returnOpcode(t model.TypeDef) byte {
	if p, ok := t.(model.PrimitiveType); ok {
		switch p.Name {
		case "void":
			return classfile.OpReturn
		case "long":
			return classfile.OpLreturn
		case "float":
			return classfile.OpFreturn
		case "double":
			return classfile.OpDreturn
		default:
			return classfile.OpIreturn
		}
	}
	return classfile.OpAreturn
}

func arrayStoreOpcode(t model.TypeDef) byte {
	if p, ok := t.(model.PrimitiveType); ok {
		switch p.Name {
		case "boolean", "byte":
			return classfile.OpBastore
		case "char":
			return classfile.OpCastore
		case "short":
			return classfile.OpSastore
		case "long":
			return classfile.OpLastore
		case "float":
			return classfile.OpFastore
		case "double":
			return classfile.OpDastore
		default:
			return classfile.OpIastore
		}
	}
	return classfile.OpAastore
}
