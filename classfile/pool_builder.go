package classfile

import "fmt"

// PoolBuilder accumulates constant pool entries with deduplication. All
// Add methods return the 1-based pool index of the entry; long and double
// entries take two slots per the format.
type PoolBuilder struct {
	entries []ConstantPoolEntry
	index   map[poolKey]uint16
	next    uint16
}

type poolKey struct {
	tag ConstantTag
	a   string
	b   string
	c   string
}

func NewPoolBuilder() *PoolBuilder {
	return &PoolBuilder{
		index: make(map[poolKey]uint16),
		next:  1,
	}
}

func (b *PoolBuilder) add(key poolKey, entry ConstantPoolEntry, wide bool) uint16 {
	if idx, ok := b.index[key]; ok {
		return idx
	}
	idx := b.next
	b.entries = append(b.entries, entry)
	b.next++
	if wide {
		b.entries = append(b.entries, nil)
		b.next++
	}
	b.index[key] = idx
	return idx
}

func (b *PoolBuilder) Utf8(value string) uint16 {
	return b.add(poolKey{tag: ConstantUtf8, a: value}, &ConstantUtf8Info{Value: value}, false)
}

// Class interns a class entry for a slash-separated internal name or an
// array descriptor.
func (b *PoolBuilder) Class(internalName string) uint16 {
	nameIdx := b.Utf8(internalName)
	return b.add(poolKey{tag: ConstantClass, a: internalName}, &ConstantClassInfo{NameIndex: nameIdx}, false)
}

func (b *PoolBuilder) String(value string) uint16 {
	strIdx := b.Utf8(value)
	return b.add(poolKey{tag: ConstantString, a: value}, &ConstantStringInfo{StringIndex: strIdx}, false)
}

func (b *PoolBuilder) Integer(value int32) uint16 {
	key := poolKey{tag: ConstantInteger, a: fmt.Sprint(value)}
	return b.add(key, &ConstantIntegerInfo{Value: value}, false)
}

func (b *PoolBuilder) Long(value int64) uint16 {
	key := poolKey{tag: ConstantLong, a: fmt.Sprint(value)}
	return b.add(key, &ConstantLongInfo{Value: value}, true)
}

func (b *PoolBuilder) Float(value float32) uint16 {
	key := poolKey{tag: ConstantFloat, a: fmt.Sprintf("%x", value)}
	return b.add(key, &ConstantFloatInfo{Value: value}, false)
}

func (b *PoolBuilder) Double(value float64) uint16 {
	key := poolKey{tag: ConstantDouble, a: fmt.Sprintf("%x", value)}
	return b.add(key, &ConstantDoubleInfo{Value: value}, true)
}

func (b *PoolBuilder) NameAndType(name, descriptor string) uint16 {
	nameIdx := b.Utf8(name)
	descIdx := b.Utf8(descriptor)
	key := poolKey{tag: ConstantNameAndType, a: name, b: descriptor}
	return b.add(key, &ConstantNameAndTypeInfo{NameIndex: nameIdx, DescriptorIndex: descIdx}, false)
}

func (b *PoolBuilder) Fieldref(class, name, descriptor string) uint16 {
	classIdx := b.Class(class)
	natIdx := b.NameAndType(name, descriptor)
	key := poolKey{tag: ConstantFieldref, a: class, b: name, c: descriptor}
	return b.add(key, &ConstantFieldrefInfo{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, false)
}

func (b *PoolBuilder) Methodref(class, name, descriptor string) uint16 {
	classIdx := b.Class(class)
	natIdx := b.NameAndType(name, descriptor)
	key := poolKey{tag: ConstantMethodref, a: class, b: name, c: descriptor}
	return b.add(key, &ConstantMethodrefInfo{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, false)
}

func (b *PoolBuilder) InterfaceMethodref(class, name, descriptor string) uint16 {
	classIdx := b.Class(class)
	natIdx := b.NameAndType(name, descriptor)
	key := poolKey{tag: ConstantInterfaceMethodref, a: class, b: name, c: descriptor}
	return b.add(key, &ConstantInterfaceMethodrefInfo{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, false)
}

// Pool returns the accumulated constant pool.
func (b *PoolBuilder) Pool() ConstantPool {
	return ConstantPool(b.entries)
}
