package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) writeU1(v uint8) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write([]byte{v})
}

func (w *writer) writeU2(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

func (w *writer) writeU4(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

func (w *writer) writeBytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

// Write serializes a class file. Attributes carrying a Parsed structure
// are serialized from it; attributes without one write their raw Info.
func Write(cf *ClassFile, out io.Writer) error {
	w := &writer{w: out}

	w.writeU4(Magic)
	w.writeU2(cf.MinorVersion)
	w.writeU2(cf.MajorVersion)

	w.writeU2(uint16(len(cf.ConstantPool)) + 1)
	for _, entry := range cf.ConstantPool {
		if entry == nil {
			// second slot of a long/double entry
			continue
		}
		if err := writeConstantPoolEntry(w, entry); err != nil {
			return err
		}
	}
	if w.err != nil {
		return fmt.Errorf("failed to write constant pool: %w", w.err)
	}

	w.writeU2(uint16(cf.AccessFlags))
	w.writeU2(cf.ThisClass)
	w.writeU2(cf.SuperClass)

	w.writeU2(uint16(len(cf.Interfaces)))
	for _, idx := range cf.Interfaces {
		w.writeU2(idx)
	}

	w.writeU2(uint16(len(cf.Fields)))
	for i := range cf.Fields {
		f := &cf.Fields[i]
		w.writeU2(uint16(f.AccessFlags))
		w.writeU2(f.NameIndex)
		w.writeU2(f.DescriptorIndex)
		writeAttributes(w, f.Attributes)
	}

	w.writeU2(uint16(len(cf.Methods)))
	for i := range cf.Methods {
		m := &cf.Methods[i]
		w.writeU2(uint16(m.AccessFlags))
		w.writeU2(m.NameIndex)
		w.writeU2(m.DescriptorIndex)
		writeAttributes(w, m.Attributes)
	}

	writeAttributes(w, cf.Attributes)

	if w.err != nil {
		return fmt.Errorf("failed to write class file: %w", w.err)
	}
	return nil
}

func writeConstantPoolEntry(w *writer, entry ConstantPoolEntry) error {
	w.writeU1(uint8(entry.Tag()))
	switch e := entry.(type) {
	case *ConstantUtf8Info:
		encoded := encodeModifiedUtf8(e.Value)
		w.writeU2(uint16(len(encoded)))
		w.writeBytes(encoded)
	case *ConstantIntegerInfo:
		w.writeU4(uint32(e.Value))
	case *ConstantFloatInfo:
		w.writeU4(math.Float32bits(e.Value))
	case *ConstantLongInfo:
		w.writeU4(uint32(uint64(e.Value) >> 32))
		w.writeU4(uint32(uint64(e.Value)))
	case *ConstantDoubleInfo:
		bits := math.Float64bits(e.Value)
		w.writeU4(uint32(bits >> 32))
		w.writeU4(uint32(bits))
	case *ConstantClassInfo:
		w.writeU2(e.NameIndex)
	case *ConstantStringInfo:
		w.writeU2(e.StringIndex)
	case *ConstantFieldrefInfo:
		w.writeU2(e.ClassIndex)
		w.writeU2(e.NameAndTypeIndex)
	case *ConstantMethodrefInfo:
		w.writeU2(e.ClassIndex)
		w.writeU2(e.NameAndTypeIndex)
	case *ConstantInterfaceMethodrefInfo:
		w.writeU2(e.ClassIndex)
		w.writeU2(e.NameAndTypeIndex)
	case *ConstantNameAndTypeInfo:
		w.writeU2(e.NameIndex)
		w.writeU2(e.DescriptorIndex)
	default:
		return fmt.Errorf("cannot serialize constant pool entry with tag %d", entry.Tag())
	}
	return nil
}

func writeAttributes(w *writer, attrs []AttributeInfo) {
	w.writeU2(uint16(len(attrs)))
	for i := range attrs {
		writeAttribute(w, &attrs[i])
	}
}

func writeAttribute(w *writer, attr *AttributeInfo) {
	info := attr.Info
	if attr.Parsed != nil {
		info = serializeAttribute(attr.Parsed)
	}
	w.writeU2(attr.NameIndex)
	w.writeU4(uint32(len(info)))
	w.writeBytes(info)
}

func serializeAttribute(parsed interface{}) []byte {
	var buf bytes.Buffer
	w := &writer{w: &buf}

	switch a := parsed.(type) {
	case *CodeAttribute:
		w.writeU2(a.MaxStack)
		w.writeU2(a.MaxLocals)
		w.writeU4(uint32(len(a.Code)))
		w.writeBytes(a.Code)
		w.writeU2(uint16(len(a.ExceptionTable)))
		for _, e := range a.ExceptionTable {
			w.writeU2(e.StartPC)
			w.writeU2(e.EndPC)
			w.writeU2(e.HandlerPC)
			w.writeU2(e.CatchType)
		}
		writeAttributes(w, a.Attributes)

	case *SourceFileAttribute:
		w.writeU2(a.SourceFileIndex)

	case *ConstantValueAttribute:
		w.writeU2(a.ConstantValueIndex)

	case *ExceptionsAttribute:
		w.writeU2(uint16(len(a.ExceptionIndexTable)))
		for _, idx := range a.ExceptionIndexTable {
			w.writeU2(idx)
		}

	case *SignatureAttribute:
		w.writeU2(a.SignatureIndex)

	case *RecordAttribute:
		w.writeU2(uint16(len(a.Components)))
		for _, c := range a.Components {
			w.writeU2(c.NameIndex)
			w.writeU2(c.DescriptorIndex)
			writeAttributes(w, c.Attributes)
		}

	case *StackMapTableAttribute:
		w.writeU2(uint16(len(a.Frames)))
		for _, f := range a.Frames {
			w.writeU1(255) // full_frame
			w.writeU2(f.OffsetDelta)
			w.writeU2(uint16(len(f.Locals)))
			for _, vt := range f.Locals {
				writeVerificationType(w, vt)
			}
			w.writeU2(uint16(len(f.Stack)))
			for _, vt := range f.Stack {
				writeVerificationType(w, vt)
			}
		}

	case *RuntimeVisibleAnnotationsAttribute:
		w.writeU2(uint16(len(a.Annotations)))
		for _, ann := range a.Annotations {
			writeAnnotation(w, ann)
		}
	}

	return buf.Bytes()
}

func writeVerificationType(w *writer, vt VerificationType) {
	w.writeU1(vt.Tag)
	if vt.Tag == VerificationObject {
		w.writeU2(vt.PoolIndex)
	}
}

func writeAnnotation(w *writer, ann Annotation) {
	w.writeU2(ann.TypeIndex)
	w.writeU2(uint16(len(ann.ElementValuePairs)))
	for _, pair := range ann.ElementValuePairs {
		w.writeU2(pair.ElementNameIndex)
		writeElementValue(w, pair.Value)
	}
}

func writeElementValue(w *writer, ev ElementValue) {
	w.writeU1(ev.Tag)
	switch v := ev.Value.(type) {
	case uint16:
		w.writeU2(v)
	case EnumConstValue:
		w.writeU2(v.TypeNameIndex)
		w.writeU2(v.ConstNameIndex)
	case ArrayValue:
		w.writeU2(uint16(len(v.Values)))
		for _, elem := range v.Values {
			writeElementValue(w, elem)
		}
	}
}

func encodeModifiedUtf8(s string) []byte {
	var buf bytes.Buffer
	for _, r := range s {
		switch {
		case r > 0 && r < 0x80:
			buf.WriteByte(byte(r))
		case r < 0x800:
			// includes the embedded NUL, which the format encodes as
			// a two-byte sequence
			buf.WriteByte(byte(0xC0 | (r>>6)&0x1F))
			buf.WriteByte(byte(0x80 | r&0x3F))
		case r < 0x10000:
			buf.WriteByte(byte(0xE0 | (r>>12)&0x0F))
			buf.WriteByte(byte(0x80 | (r>>6)&0x3F))
			buf.WriteByte(byte(0x80 | r&0x3F))
		default:
			// supplementary characters encode as a surrogate pair
			r -= 0x10000
			high := 0xD800 + (r >> 10)
			low := 0xDC00 + (r & 0x3FF)
			for _, h := range []rune{high, low} {
				buf.WriteByte(byte(0xE0 | (h>>12)&0x0F))
				buf.WriteByte(byte(0x80 | (h>>6)&0x3F))
				buf.WriteByte(byte(0x80 | h&0x3F))
			}
		}
	}
	return buf.Bytes()
}
