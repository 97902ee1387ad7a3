package source

import "testing"

const sampleDiff = `diff --git a/hello.py b/hello.py
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/hello.py
@@ -0,0 +1,3 @@
+def greet():
+    print("hello")
+
diff --git a/old.py b/old.py
deleted file mode 100644
index abc1234..0000000
--- a/old.py
+++ /dev/null
@@ -1,2 +0,0 @@
-x = 1
-y = 2
diff --git a/util.py b/util.py
index abc1234..def5678 100644
--- a/util.py
+++ b/util.py
@@ -1,3 +1,4 @@
 import os

-def run(): pass
+def run():
+    return os.getcwd()
`

func TestChangedFiles(t *testing.T) {
	files, err := ChangedFiles(sampleDiff)
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 analyzable files (deleted skipped), got %d", len(files))
	}

	if files[0].Path != "hello.py" || !files[0].IsNew {
		t.Errorf("files[0] = %+v, want new hello.py", files[0])
	}
	if files[0].Added != 3 {
		t.Errorf("hello.py added = %d, want 3", files[0].Added)
	}

	if files[1].Path != "util.py" {
		t.Errorf("files[1].Path = %q, want util.py", files[1].Path)
	}
	if files[1].Added != 2 || files[1].Deleted != 1 {
		t.Errorf("util.py stats = +%d -%d, want +2 -1", files[1].Added, files[1].Deleted)
	}
}

func TestChangedFilesEmptyDiff(t *testing.T) {
	files, err := ChangedFiles("")
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestChangedFilesBadDiff(t *testing.T) {
	if _, err := ChangedFiles("diff --git a/x b/x\n@@ garbage"); err == nil {
		t.Error("expected parse error")
	}
}
