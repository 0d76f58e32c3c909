/*
Package codec serializes machines to and from the binary machine file layout.

All integers are 4-byte signed little-endian values:

	int32   state_count
	state_count x { int32 id, int32 pos_x, int32 pos_y }
	int32   transition_count
	transition_count x {
	    int32  start_id
	    int32  end_id
	    string read_symbol   // int32 byte length N, then N bytes of UTF-8
	    string write_symbol
	    int32  head_move
	}

There is no magic number, version or checksum. Decoding is all or nothing:
a short or inconsistent input yields a *DecodeError and no machine.

The decoder is stricter than the layout. Input that has the right shape is
still rejected when it would not form a valid machine: duplicate state ids,
transitions to unknown states, two transitions reading the same symbol from
one state, or symbols longer than domain.SymbolMaxLength characters. Every
decoded transition goes through Machine.TryAddTransition.
*/
package codec
